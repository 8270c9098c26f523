package log

import (
	"context"

	"github.com/rs/zerolog"
)

// ctxKey is unexported so only this package can attach the logger.
type ctxKey struct{}

// WithLogger attaches a request-scoped logger to ctx. Handlers derive a
// child logger carrying connection and user fields and pass it down
// through the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx returns the logger attached to ctx, falling back to the global
// logger for background goroutines and tests that carry a bare context.
func Ctx(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return L()
}
