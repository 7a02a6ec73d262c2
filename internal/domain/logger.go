package domain

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents logging severity
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ParseLogLevel maps a config string onto a LogLevel. Unknown values fall
// back to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  LogLevel
	Format string // json or console
	Output io.Writer
}

// Logger provides leveled logging on top of zerolog. Output goes to stderr by
// default so stdout stays reserved for the translated document.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a console logger writing to stderr
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWithConfig(LogConfig{Level: level, Format: "console"})
}

// NewLoggerWithConfig creates a logger from an explicit configuration
func NewLoggerWithConfig(cfg LogConfig) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zl zerolog.Logger
	if cfg.Format == "json" {
		zl = zerolog.New(output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	}

	return &Logger{zl: zl.Level(cfg.Level.zerolog()).With().Timestamp().Logger()}
}

// Debug logs debug-level messages
func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

// Info logs info-level messages
func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

// Warn logs warning-level messages
func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

// Error logs error-level messages
func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// WithPrefix returns a new logger tagged with a component name
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", prefix).Logger()}
}

// WithField returns a new logger carrying an extra string field
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// DefaultLogger is the default logger instance
var DefaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger replaces the package-wide logger. Called once at startup.
func SetDefaultLogger(l *Logger) {
	if l != nil {
		DefaultLogger = l
	}
}
