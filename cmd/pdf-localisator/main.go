package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dragoncodes/pdf-math-localisator/internal/config"
	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
	"github.com/dragoncodes/pdf-math-localisator/internal/download"
	"github.com/dragoncodes/pdf-math-localisator/internal/llm"
	"github.com/dragoncodes/pdf-math-localisator/internal/pdf"
	"github.com/dragoncodes/pdf-math-localisator/internal/pipeline"
)

const (
	version = "0.1.0"
)

func main() {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, http.DefaultClient)
	cancel()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, httpClient *http.Client) int {
	cmd := newRootCommand(stdout, stderr, httpClient)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "✗ Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer, httpClient *http.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf-localisator <pdf-url> <language> [additional-instructions]",
		Short: "Translate a maths competition PDF page by page",
		Long: `pdf-localisator downloads a PDF, extracts the text of every page and
translates each page concurrently through a chat-completions API. The
translations are printed in page order once all of them have finished.

Environment Variables:
  OPENAI_KEY               API key (required)
  PDF_LOCALISATOR_CONFIG   Path to a YAML config file (optional)
  OPENAI_ENDPOINT          Override the chat-completions endpoint
  LLM_MODEL                Override the model
  PDF_EXTRACTOR_BACKEND    pdftotext, fitz or native
  PDFTOTEXT_PATH           pdftotext binary (default ./pdftotext)`,
		Example:       `  pdf-localisator https://example.com/round1.pdf French`,
		Version:       version,
		Args:          cobra.RangeArgs(2, 3),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), args, stdout, stderr, httpClient)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

type runResult struct {
	text string
	err  error
}

func runTranslate(ctx context.Context, args []string, stdout, stderr io.Writer, httpClient *http.Client) error {
	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		return err
	}

	// Nothing touches the network without a credential
	if err := cfg.RequireCredential(); err != nil {
		return fmt.Errorf("%w\nPlease set it in your .env file or environment", err)
	}

	if cfg.UI.NoColor {
		color.NoColor = true
	}

	logger := domain.NewLoggerWithConfig(domain.LogConfig{
		Level:  domain.ParseLogLevel(cfg.Observability.LogLevel),
		Format: cfg.Observability.LogFormat,
		Output: stderr,
	}).WithField("run_id", uuid.NewString())
	domain.SetDefaultLogger(logger)

	sourceURL, language := args[0], args[1]
	if len(args) == 3 {
		logger.Debug("Additional instructions are not used yet: %q", strings.TrimSpace(args[2]))
	}

	extractor, err := pdf.New(cfg.Extractor)
	if err != nil {
		return err
	}

	translator := llm.NewClient(cfg.Translator.APIKey, cfg.Translator.Model,
		llm.WithEndpoint(cfg.Translator.Endpoint),
		llm.WithHTTPClient(httpClient),
		llm.WithMaxRetries(cfg.Translator.MaxRetries),
		llm.WithTimeout(cfg.Translator.RequestTimeout),
		llm.WithLogger(logger),
	)

	svc := pipeline.NewService(download.NewDownloader(httpClient), extractor, translator, cfg.Pipeline,
		pipeline.WithChecker(pdf.NewValidator()),
		pipeline.WithLogger(logger.WithPrefix("pipeline")),
	)

	logger.Info("Translating %s into %s", sourceURL, language)

	eventCh := make(chan domain.StreamEvent, 100)
	doneCh := make(chan runResult, 1)
	go func() {
		text, err := svc.Run(ctx, sourceURL, language, eventCh)
		close(eventCh)
		doneCh <- runResult{text: text, err: err}
	}()

	r := newRenderer(stdout, stderr, cfg.UI.Progress)
	for event := range eventCh {
		r.handle(event)
	}
	r.close()

	res := <-doneCh
	if res.err != nil {
		return res.err
	}

	fmt.Fprintln(stdout, "Translations collected... printing")
	fmt.Fprintln(stdout, res.text)
	return nil
}
