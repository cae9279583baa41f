package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging. Fields are alternating key/value pairs.
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Fatal(msg string, err error, fields ...interface{})
}

// ZeroLogger implements Logger on top of zerolog
type ZeroLogger struct {
	z zerolog.Logger
}

// New creates a zerolog-backed logger writing to stdout. pretty switches to
// the human-readable console writer used in development.
func New(level string, pretty bool) Logger {
	var out io.Writer = os.Stdout
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, level)
}

// NewWithWriter creates a logger writing JSON lines to w
func NewWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return &ZeroLogger{
		z: zerolog.New(w).Level(lvl).With().Timestamp().Logger(),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return &ZeroLogger{z: zerolog.Nop()}
}

// Info logs an info message
func (l *ZeroLogger) Info(msg string, fields ...interface{}) {
	l.z.Info().Fields(fields).Msg(msg)
}

// Error logs an error message
func (l *ZeroLogger) Error(msg string, err error, fields ...interface{}) {
	l.z.Error().Err(err).Fields(fields).Msg(msg)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(msg string, fields ...interface{}) {
	l.z.Warn().Fields(fields).Msg(msg)
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(msg string, fields ...interface{}) {
	l.z.Debug().Fields(fields).Msg(msg)
}

// Fatal logs a fatal error and exits
func (l *ZeroLogger) Fatal(msg string, err error, fields ...interface{}) {
	l.z.Fatal().Err(err).Fields(fields).Msg(msg)
}
