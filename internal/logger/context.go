package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ContextWithLogger returns a copy of ctx carrying l.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the context logger, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	return FromContextOr(ctx, zap.NewNop())
}

// FromContextOr returns the context logger, or fallback when the context carries none.
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}

// WithFields derives a child of the context logger (or base) with fields
// and stores it in the returned context. Request and run scopes use it so
// nested calls log their identifiers without threading them through.
func WithFields(ctx context.Context, base *zap.Logger, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContextOr(ctx, base).With(fields...))
}
