// Package config provides configuration loading for the localisator.
// Supports an optional YAML file and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// Environment variables understood by the tool.
const (
	EnvAPIKey         = "OPENAI_KEY"
	EnvConfigPath     = "PDF_LOCALISATOR_CONFIG"
	EnvEndpoint       = "OPENAI_ENDPOINT"
	EnvModel          = "LLM_MODEL"
	EnvBackend        = "PDF_EXTRACTOR_BACKEND"
	EnvPdftotextPath  = "PDFTOTEXT_PATH"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvMaxConcurrency = "MAX_CONCURRENCY"
	EnvMaxPages       = "MAX_PAGES"
)

// DefaultPdftotextPath is where pdftotext is looked up when nothing else is
// configured.
const DefaultPdftotextPath = "./pdftotext"

// Extractor backends.
const (
	BackendPdftotext = "pdftotext"
	BackendFitz      = "fitz"
	BackendNative    = "native"
)

// Config holds all configuration for a run.
type Config struct {
	Translator    TranslatorConfig    `yaml:"translator"`
	Extractor     ExtractorConfig     `yaml:"extractor"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Observability ObservabilityConfig `yaml:"observability"`
	UI            UIConfig            `yaml:"ui"`
}

// TranslatorConfig holds chat-completion API settings. The API key is never
// read from the file.
type TranslatorConfig struct {
	APIKey         string        `yaml:"-"`
	Endpoint       string        `yaml:"endpoint"`
	Model          string        `yaml:"model"`
	MaxRetries     int           `yaml:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 disables the timeout
}

// ExtractorConfig selects the page extraction backend.
type ExtractorConfig struct {
	Backend       string `yaml:"backend"` // pdftotext, fitz or native
	PdftotextPath string `yaml:"pdftotext_path"`
}

// PipelineConfig holds discovery and dispatch settings.
type PipelineConfig struct {
	DocumentPath   string `yaml:"document_path"`
	MaxPages       int    `yaml:"max_pages"`       // 0 means probe until extraction fails
	MaxConcurrency int    `yaml:"max_concurrency"` // 0 means one in-flight call per page
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Progress bool `yaml:"progress"`
	NoColor  bool `yaml:"no_color"`
}

// Load reads configuration from a YAML file and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("validate config", err)
	}

	return cfg, nil
}

// DefaultConfig returns the built-in defaults. Paths are relative to the
// working directory.
func DefaultConfig() *Config {
	return &Config{
		Translator: TranslatorConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-3.5-turbo",
		},
		Extractor: ExtractorConfig{
			Backend:       BackendPdftotext,
			PdftotextPath: DefaultPdftotextPath,
		},
		Pipeline: PipelineConfig{
			DocumentPath: "file.pdf",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "warn",
			LogFormat: "console",
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	cfg.Translator.APIKey = os.Getenv(EnvAPIKey)

	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Translator.Endpoint = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		cfg.Translator.Model = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Extractor.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPdftotextPath); v != "" {
		cfg.Extractor.PdftotextPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Observability.LogFormat = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvMaxConcurrency, &cfg.Pipeline.MaxConcurrency},
		{EnvMaxPages, &cfg.Pipeline.MaxPages},
	}
	for _, o := range ints {
		v := os.Getenv(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ConfigError(fmt.Sprintf("%s must be an integer", o.key), err)
		}
		*o.dst = n
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Translator.Endpoint == "" {
		return fmt.Errorf("translator endpoint is required")
	}
	if c.Translator.Model == "" {
		return fmt.Errorf("translator model is required")
	}
	if c.Translator.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative: %d", c.Translator.MaxRetries)
	}
	if c.Translator.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative: %v", c.Translator.RequestTimeout)
	}

	switch c.Extractor.Backend {
	case BackendPdftotext:
		if c.Extractor.PdftotextPath == "" {
			return fmt.Errorf("pdftotext_path is required for the pdftotext backend")
		}
	case BackendFitz, BackendNative:
	default:
		return fmt.Errorf("invalid extractor backend: %s", c.Extractor.Backend)
	}

	if c.Pipeline.DocumentPath == "" {
		return fmt.Errorf("document_path is required")
	}
	if c.Pipeline.MaxPages < 0 {
		return fmt.Errorf("max_pages cannot be negative: %d", c.Pipeline.MaxPages)
	}
	if c.Pipeline.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency cannot be negative: %d", c.Pipeline.MaxConcurrency)
	}

	if f := c.Observability.LogFormat; f != "console" && f != "json" {
		return fmt.Errorf("invalid log format: %s", f)
	}

	return nil
}

// RequireCredential reports a config error when no API key is present.
func (c *Config) RequireCredential() error {
	if c.Translator.APIKey == "" {
		return domain.ConfigError(EnvAPIKey+" not set", nil)
	}
	return nil
}
