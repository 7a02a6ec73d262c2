package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// renderer turns pipeline events into the progress lines on stdout. The
// optional spinner and progress bar draw on stderr.
type renderer struct {
	out      io.Writer
	errOut   io.Writer
	progress bool

	spin *spinner.Spinner
	bar  *progressbar.ProgressBar
}

func newRenderer(out, errOut io.Writer, progress bool) *renderer {
	return &renderer{out: out, errOut: errOut, progress: progress}
}

func (r *renderer) handle(event domain.StreamEvent) {
	switch event.Type {
	case domain.EventDownloadStart:
		fmt.Fprintln(r.out, "Downloading pdf")
		if r.progress {
			r.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			r.spin.Suffix = " downloading"
			r.spin.Writer = r.errOut
			r.spin.Start()
		}

	case domain.EventDownloadDone:
		r.stopSpinner()
		fmt.Fprintln(r.out, "Pdf downloaded")

	case domain.EventDispatchStart:
		fmt.Fprintln(r.out, "Starting translations page by page")

	case domain.EventDispatchDone:
		fmt.Fprintf(r.out, "%v pages queued for translation\n", event.Payload)

	case domain.EventCollectStart:
		if n, ok := event.Payload.(int); ok && r.progress && n > 0 {
			r.bar = progressbar.NewOptions(n,
				progressbar.OptionSetWriter(r.errOut),
				progressbar.OptionSetDescription("translating"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetItsString("pages"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprint(r.errOut, "\n")
				}),
				progressbar.OptionSetRenderBlankState(true),
			)
		}

	case domain.EventPageTranslated, domain.EventPageFailed:
		if r.bar != nil {
			_ = r.bar.Add(1)
		}

	case domain.EventComplete:
		r.finishBar()
	}
}

// close releases any terminal widgets left running by an aborted run
func (r *renderer) close() {
	r.stopSpinner()
	r.finishBar()
}

func (r *renderer) stopSpinner() {
	if r.spin != nil {
		r.spin.Stop()
		r.spin = nil
	}
}

func (r *renderer) finishBar() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}
