// Package logging defines the structured-logging interface used across the
// client and the development server. Two implementations are provided: one
// over log/slog and one over zerolog; New picks between them from config.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "bootstrap finished", "route", route, "state", state)
type Logger interface {
	// Debug logs diagnostic detail that is only interesting during development.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog    = "slog"
	BackendZerolog = "zerolog"

	EnvProduction = "production"
)

// New builds a Logger writing to w. Production environments log at info
// level in a machine-readable format; everything else logs at debug level.
func New(backend, environment string, w io.Writer) Logger {
	production := environment == EnvProduction

	if backend == BackendZerolog {
		var zl zerolog.Logger
		if production {
			zl = zerolog.New(w).Level(zerolog.InfoLevel)
		} else {
			zl = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(zerolog.DebugLevel)
		}
		return NewZerologLogger(zl.With().Timestamp().Str("env", environment).Logger())
	}

	var h slog.Handler
	if production {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return NewSlogLogger(slog.New(h).With("env", environment))
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
