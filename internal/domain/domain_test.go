package domain

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	inner := io.ErrUnexpectedEOF

	tests := []struct {
		name string
		err  *DomainError
		want string
	}{
		{"with cause", APIError("Failed to decode response", inner), "[api] Failed to decode response: unexpected EOF"},
		{"without cause", ConfigError("OPENAI_KEY not set", nil), "[config] OPENAI_KEY not set"},
		{"io", IOError("Failed to create file", nil), "[io] Failed to create file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	wrapped := ExtractionError("page 3", ErrPageNotFound)
	assert.True(t, errors.Is(wrapped, ErrPageNotFound))
	assert.True(t, IsType(wrapped, ErrorTypeExtraction))
	assert.False(t, IsType(wrapped, ErrorTypeAPI))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeAPI))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLogLevel(" error "))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("info"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("nonsense"))
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithConfig(LogConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.WithPrefix("pipeline").Error("also shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, `"component":"pipeline"`)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestPageOutcomeSucceeded(t *testing.T) {
	assert.True(t, PageOutcome{PageNumber: 1, Text: ""}.Succeeded())
	assert.False(t, PageOutcome{PageNumber: 2, Err: errors.New("boom")}.Succeeded())
}
