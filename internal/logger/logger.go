// Package logger wraps zerolog.Logger with the constructors used by the
// build driver and the production server.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger struct {
	zerolog.Logger
}

// New returns a JSON logger writing to w with a "component" field.
// Debug output is enabled when debug is true.
func New(w io.Writer, component string, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(w).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()

	return &Logger{l}
}

// NewConsole returns a human readable logger for terminal use.
func NewConsole(component string, debug bool) *Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, component, debug)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child returns a logger tagged with a "scope" field.
func (l *Logger) Child(scope string) *Logger {
	return &Logger{l.With().Str("scope", scope).Logger()}
}

// WithContext stores l in ctx for retrieval with FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or zerolog's default
// disabled logger when none was attached.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
