// Package logging defines the structured-logging interface used by the
// HydrateMate client. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "stored user is corrupted", "key", "user", "error", err)
type Logger interface {
	// Debug logs diagnostic detail (store reads/writes, retry attempts).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable conditions such as corrupted local state.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that were swallowed at an operation boundary.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
