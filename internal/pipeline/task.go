// Package pipeline discovers pages, fans translations out to goroutines and
// joins the results back in page order.
package pipeline

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// Task is a handle to one in-flight page translation. It resolves exactly
// once, to a text or an error.
type Task struct {
	PageNumber int

	done chan struct{}
	text string
	err  error
}

// startTask launches the translation of one page. The optional gate is
// acquired inside the goroutine so the caller never blocks on it.
func startTask(ctx context.Context, page domain.Page, language string, translator domain.Translator, gate *semaphore.Weighted) *Task {
	t := &Task{
		PageNumber: page.Number,
		done:       make(chan struct{}),
	}

	go func() {
		defer close(t.done)

		if gate != nil {
			if err := gate.Acquire(ctx, 1); err != nil {
				t.err = err
				return
			}
			defer gate.Release(1)
		}

		t.text, t.err = translator.Translate(ctx, page.Text, language)
	}()

	return t
}

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves or ctx is done.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.text, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Outcome waits for the task and reports it as a domain.PageOutcome.
func (t *Task) Outcome(ctx context.Context) domain.PageOutcome {
	text, err := t.Wait(ctx)
	return domain.PageOutcome{PageNumber: t.PageNumber, Text: text, Err: err}
}
