package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/dragoncodes/pdf-math-localisator/internal/config"
	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// DocumentChecker reports problems with a downloaded document. Problems are
// advisory.
type DocumentChecker interface {
	Check(path string) []error
}

// Result is the outcome of a full run
type Result struct {
	Text     string
	Outcomes []domain.PageOutcome
	Stats    domain.RunStats
}

// Service orchestrates download, page dispatch and collection
type Service struct {
	downloader domain.Downloader
	extractor  domain.PageExtractor
	translator domain.Translator
	checker    DocumentChecker
	cfg        config.PipelineConfig
	logger     *domain.Logger
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithChecker validates the document after download
func WithChecker(c DocumentChecker) ServiceOption {
	return func(s *Service) {
		s.checker = c
	}
}

// WithLogger sets the service logger
func WithLogger(l *domain.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new pipeline service
func NewService(downloader domain.Downloader, extractor domain.PageExtractor, translator domain.Translator,
	cfg config.PipelineConfig, opts ...ServiceOption) *Service {
	s := &Service{
		downloader: downloader,
		extractor:  extractor,
		translator: translator,
		cfg:        cfg,
		logger:     domain.DefaultLogger.WithPrefix("pipeline"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.DocumentPath == "" {
		s.cfg.DocumentPath = config.DefaultConfig().Pipeline.DocumentPath
	}
	return s
}

// Run translates the document at sourceURL into language and returns the
// page translations concatenated in page order.
func (s *Service) Run(ctx context.Context, sourceURL, language string, eventCh chan<- domain.StreamEvent) (string, error) {
	res, err := s.Process(ctx, sourceURL, language, eventCh)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Process is Run with per-page outcomes and run statistics.
func (s *Service) Process(ctx context.Context, sourceURL, language string, eventCh chan<- domain.StreamEvent) (*Result, error) {
	startTime := time.Now()
	doc := domain.Document{SourceURL: sourceURL, FilePath: s.cfg.DocumentPath}

	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventDownloadStart, Payload: sourceURL})
	s.logger.Info("Downloading %s to %s", doc.SourceURL, doc.FilePath)
	if err := s.downloader.Download(ctx, doc.SourceURL, doc.FilePath); err != nil {
		return nil, err
	}
	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventDownloadDone, Payload: doc.FilePath})

	if s.checker != nil {
		for _, problem := range s.checker.Check(doc.FilePath) {
			s.logger.Warn("Document check: %v", problem)
		}
	}

	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventDispatchStart})
	tasks := Dispatch(ctx, s.extractor, s.translator, doc.FilePath, language,
		WithMaxPages(s.cfg.MaxPages),
		WithMaxConcurrency(s.cfg.MaxConcurrency),
		WithDispatchLogger(s.logger),
		WithQueuedHook(func(page int) {
			s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventPageQueued, PageNumber: page})
		}),
	)
	s.removeDocument(doc.FilePath)
	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventDispatchDone, Payload: len(tasks)})
	s.logger.Info("%d pages queued", len(tasks))

	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventCollectStart, Payload: len(tasks)})
	stats := domain.RunStats{PagesQueued: len(tasks)}
	outcomes := collect(ctx, tasks, func(o domain.PageOutcome) {
		if o.Succeeded() {
			stats.SuccessfulPages++
			s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventPageTranslated, PageNumber: o.PageNumber})
			return
		}
		stats.FailedPages++
		s.logger.Debug("Page %d translation failed: %v", o.PageNumber, o.Err)
		s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventPageFailed, PageNumber: o.PageNumber, Payload: o.Err.Error()})
	})

	text := concat(outcomes)
	stats.TotalTime = time.Since(startTime)
	s.emitEvent(ctx, eventCh, domain.StreamEvent{Type: domain.EventComplete, Payload: text})

	s.logger.Info("Translation complete: %d/%d pages successful in %v",
		stats.SuccessfulPages, stats.PagesQueued, stats.TotalTime)

	return &Result{Text: text, Outcomes: outcomes, Stats: stats}, nil
}

// removeDocument deletes the downloaded file once every page has been read
func (s *Service) removeDocument(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove %s: %v", path, err)
	}
}

// emitEvent delivers an event unless ctx is done first
func (s *Service) emitEvent(ctx context.Context, eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case eventCh <- event:
	case <-ctx.Done():
		s.logger.Warn("Context done, dropping event: %s", event.Type)
	}
}
