// Package localisator is the library entry point: download a PDF and get
// its pages translated, in order, as one string.
package localisator

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dragoncodes/pdf-math-localisator/internal/config"
	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
	"github.com/dragoncodes/pdf-math-localisator/internal/download"
	"github.com/dragoncodes/pdf-math-localisator/internal/llm"
	"github.com/dragoncodes/pdf-math-localisator/internal/pdf"
	"github.com/dragoncodes/pdf-math-localisator/internal/pipeline"
)

// Re-export event types for public API
type (
	StreamEvent = domain.StreamEvent
	EventType   = domain.EventType
	PageOutcome = domain.PageOutcome
	RunStats    = domain.RunStats
	Result      = pipeline.Result
)

// Event type constants
const (
	EventDownloadStart  = domain.EventDownloadStart
	EventDownloadDone   = domain.EventDownloadDone
	EventDispatchStart  = domain.EventDispatchStart
	EventPageQueued     = domain.EventPageQueued
	EventDispatchDone   = domain.EventDispatchDone
	EventCollectStart   = domain.EventCollectStart
	EventPageTranslated = domain.EventPageTranslated
	EventPageFailed     = domain.EventPageFailed
	EventComplete       = domain.EventComplete
)

// Client is the main entry point for the localisator library
type Client struct {
	service *pipeline.Service
}

// Config holds configuration options for the client
type Config struct {
	APIKey         string        // chat-completions API key
	Model          string        // Optional: model override
	Endpoint       string        // Optional: endpoint override
	MaxRetries     int           // Optional: retries on 429/5xx, 0 disables
	RequestTimeout time.Duration // Optional: per-request timeout, 0 disables
	Backend        string        // Optional: pdftotext, fitz or native
	PdftotextPath  string        // Optional: pdftotext binary
	DocumentPath   string        // Optional: where the PDF is stored during discovery
	MaxPages       int           // Optional: stop discovery after this many pages
	MaxConcurrency int           // Optional: bound on in-flight translations
	LogLevel       string        // Optional: debug, info, warn or error
	LogFormat      string        // Optional: console or json
	HTTPClient     *http.Client  // Optional: used for the download and every API call
}

// NewClient creates a client from the environment, loading .env first
func NewClient() (*Client, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireCredential(); err != nil {
		return nil, err
	}

	return NewClientWithConfig(&Config{
		APIKey:         cfg.Translator.APIKey,
		Model:          cfg.Translator.Model,
		Endpoint:       cfg.Translator.Endpoint,
		MaxRetries:     cfg.Translator.MaxRetries,
		RequestTimeout: cfg.Translator.RequestTimeout,
		Backend:        cfg.Extractor.Backend,
		PdftotextPath:  cfg.Extractor.PdftotextPath,
		DocumentPath:   cfg.Pipeline.DocumentPath,
		MaxPages:       cfg.Pipeline.MaxPages,
		MaxConcurrency: cfg.Pipeline.MaxConcurrency,
		LogLevel:       cfg.Observability.LogLevel,
		LogFormat:      cfg.Observability.LogFormat,
	})
}

// NewClientWithConfig creates a client with explicit configuration
func NewClientWithConfig(c *Config) (*Client, error) {
	if c == nil || c.APIKey == "" {
		return nil, domain.ConfigError("API key is required", nil)
	}
	if c.MaxRetries < 0 || c.RequestTimeout < 0 || c.MaxPages < 0 || c.MaxConcurrency < 0 {
		return nil, domain.ConfigError("limits cannot be negative", nil)
	}

	logger := domain.DefaultLogger
	if c.LogLevel != "" || c.LogFormat != "" {
		logger = domain.NewLoggerWithConfig(domain.LogConfig{
			Level:  domain.ParseLogLevel(c.LogLevel),
			Format: c.LogFormat,
		})
	}

	defaults := config.DefaultConfig()
	extractorCfg := defaults.Extractor
	if c.Backend != "" {
		extractorCfg.Backend = c.Backend
	}
	if c.PdftotextPath != "" {
		extractorCfg.PdftotextPath = c.PdftotextPath
	}

	extractor, err := pdf.New(extractorCfg)
	if err != nil {
		return nil, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	opts := []llm.Option{
		llm.WithHTTPClient(httpClient),
		llm.WithMaxRetries(c.MaxRetries),
		llm.WithTimeout(c.RequestTimeout),
		llm.WithLogger(logger),
	}
	if c.Endpoint != "" {
		opts = append(opts, llm.WithEndpoint(c.Endpoint))
	}
	translator := llm.NewClient(c.APIKey, c.Model, opts...)

	pipelineCfg := defaults.Pipeline
	if c.DocumentPath != "" {
		pipelineCfg.DocumentPath = c.DocumentPath
	}
	pipelineCfg.MaxPages = c.MaxPages
	pipelineCfg.MaxConcurrency = c.MaxConcurrency

	service := pipeline.NewService(download.NewDownloader(httpClient), extractor, translator, pipelineCfg,
		pipeline.WithChecker(pdf.NewValidator()),
		pipeline.WithLogger(logger.WithPrefix("pipeline")))

	return &Client{service: service}, nil
}

// Translate downloads the document at url and returns its pages translated
// into language, concatenated in page order.
func (c *Client) Translate(ctx context.Context, url, language string) (string, error) {
	return c.service.Run(ctx, url, language, nil)
}

// Process runs a translation and streams progress events on the returned
// channel. The final event carries the aggregate text; a failed run ends
// with no EventComplete and the error on the error channel.
func (c *Client) Process(ctx context.Context, url, language string) (<-chan StreamEvent, <-chan error) {
	eventCh := make(chan StreamEvent, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(eventCh)
		defer close(errCh)
		if _, err := c.service.Run(ctx, url, language, eventCh); err != nil {
			errCh <- err
		}
	}()

	return eventCh, errCh
}
