package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragoncodes/pdf-math-localisator/internal/domain"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIKey, EnvEndpoint, EnvModel, EnvBackend, EnvPdftotextPath,
		EnvLogLevel, EnvLogFormat, EnvMaxConcurrency, EnvMaxPages,
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.Translator.Endpoint)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Translator.Model)
	assert.Equal(t, 0, cfg.Translator.MaxRetries)
	assert.Equal(t, time.Duration(0), cfg.Translator.RequestTimeout)
	assert.Equal(t, BackendPdftotext, cfg.Extractor.Backend)
	assert.Equal(t, "./pdftotext", cfg.Extractor.PdftotextPath)
	assert.Equal(t, "file.pdf", cfg.Pipeline.DocumentPath)
	assert.Zero(t, cfg.Pipeline.MaxPages)
	assert.Zero(t, cfg.Pipeline.MaxConcurrency)
	assert.Empty(t, cfg.Translator.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
translator:
  model: gpt-4o-mini
  max_retries: 2
  request_timeout: 45s
extractor:
  backend: native
pipeline:
  document_path: /tmp/doc.pdf
  max_concurrency: 8
observability:
  log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Translator.Model)
	assert.Equal(t, 2, cfg.Translator.MaxRetries)
	assert.Equal(t, 45*time.Second, cfg.Translator.RequestTimeout)
	assert.Equal(t, BackendNative, cfg.Extractor.Backend)
	assert.Equal(t, "/tmp/doc.pdf", cfg.Pipeline.DocumentPath)
	assert.Equal(t, 8, cfg.Pipeline.MaxConcurrency)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.Translator.Endpoint)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv(EnvModel, "gpt-4o")
	t.Setenv(EnvBackend, "FITZ")
	t.Setenv(EnvMaxPages, "500")
	t.Setenv(EnvMaxConcurrency, "4")

	path := writeConfig(t, "translator:\n  model: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Translator.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Translator.Model)
	assert.Equal(t, BackendFitz, cfg.Extractor.Backend)
	assert.Equal(t, 500, cfg.Pipeline.MaxPages)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrency)
	assert.NoError(t, cfg.RequireCredential())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown backend", body: "extractor:\n  backend: ocr\n"},
		{name: "negative retries", body: "translator:\n  max_retries: -1\n"},
		{name: "negative concurrency", body: "pipeline:\n  max_concurrency: -3\n"},
		{name: "bad log format", body: "observability:\n  log_format: xml\n"},
		{name: "empty document path", body: "pipeline:\n  document_path: \"\"\n"},
		{name: "malformed yaml", body: "translator: [unclosed\n"},
		{name: "non-numeric env", body: "", env: map[string]string{EnvMaxPages: "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}

func TestRequireCredential(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.RequireCredential()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}
