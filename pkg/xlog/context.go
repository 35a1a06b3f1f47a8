package xlog

import (
	"context"
)

// C is short for FromContext.
var C = FromContext

type contextKey struct{}

// FromContext returns the Logger carried by ctx, or the default Logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
			return logger
		}
	}
	return Default()
}

// WithContext returns a child of ctx carrying the Logger of ctx extended
// with args.
func WithContext(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, contextKey{}, FromContext(ctx).With(args...))
}
