package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

type dispatchOptions struct {
	maxPages       int
	maxConcurrency int
	onQueued       func(page int)
	logger         *domain.Logger
}

// DispatchOption configures Dispatch
type DispatchOption func(*dispatchOptions)

// WithMaxPages stops discovery after n pages. Zero means no limit.
func WithMaxPages(n int) DispatchOption {
	return func(o *dispatchOptions) {
		o.maxPages = n
	}
}

// WithMaxConcurrency bounds the number of translations running at once.
// Zero means no limit.
func WithMaxConcurrency(n int) DispatchOption {
	return func(o *dispatchOptions) {
		o.maxConcurrency = n
	}
}

// WithQueuedHook registers a callback invoked after each page is queued
func WithQueuedHook(fn func(page int)) DispatchOption {
	return func(o *dispatchOptions) {
		o.onQueued = fn
	}
}

// WithDispatchLogger sets the logger used during discovery
func WithDispatchLogger(logger *domain.Logger) DispatchOption {
	return func(o *dispatchOptions) {
		o.logger = logger
	}
}

// Dispatch extracts pages 1, 2, 3... from the document and starts a
// translation task for each one as soon as its text is known. The first
// extraction failure marks the end of the document and is not reported.
// Tasks are returned in page order.
func Dispatch(ctx context.Context, extractor domain.PageExtractor, translator domain.Translator,
	documentPath, language string, opts ...DispatchOption) []*Task {
	o := dispatchOptions{logger: domain.DefaultLogger.WithPrefix("dispatch")}
	for _, opt := range opts {
		opt(&o)
	}

	var gate *semaphore.Weighted
	if o.maxConcurrency > 0 {
		gate = semaphore.NewWeighted(int64(o.maxConcurrency))
	}

	var tasks []*Task
	for page := 1; ; page++ {
		if o.maxPages > 0 && page > o.maxPages {
			o.logger.Debug("Page limit %d reached", o.maxPages)
			break
		}

		text, err := extractor.ExtractPage(ctx, documentPath, page)
		if err != nil {
			if errors.Is(err, domain.ErrPageNotFound) {
				o.logger.Debug("No page %d, discovery finished", page)
			} else {
				o.logger.Debug("Extraction stopped at page %d: %v", page, err)
			}
			break
		}
		if text == "" {
			o.logger.Debug("Page %d is empty, discovery finished", page)
			break
		}

		tasks = append(tasks, startTask(ctx, domain.Page{Number: page, Text: text}, language, translator, gate))
		o.logger.Debug("Queued page %d (%d bytes)", page, len(text))

		if o.onQueued != nil {
			o.onQueued(page)
		}
	}

	return tasks
}
