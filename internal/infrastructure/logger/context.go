package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	tenantIDKey
	userIDKey
)

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithSpan tags the context logger with the trace_id and span_id of the span
// in ctx so log entries can be joined with traces. Without a valid span ctx
// is returned unchanged.
func WithSpan(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	return WithContext(ctx, FromContext(ctx).With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	))
}

// WithRequestID records the request ID in ctx and on the logger
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return enrich(ctx, l, requestIDKey, "request_id", requestID)
}

// WithTenantID records the organization the request acts on
func WithTenantID(ctx context.Context, l *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return enrich(ctx, l, tenantIDKey, "tenant_id", tenantID)
}

// WithUserID records the authenticated user
func WithUserID(ctx context.Context, l *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return enrich(ctx, l, userIDKey, "user_id", userID)
}

func enrich(ctx context.Context, l *zap.Logger, key ctxKey, field, value string) (context.Context, *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	ctx = context.WithValue(ctx, key, value)
	l = l.With(zap.String(field, value))
	return WithContext(ctx, l), l
}

// RequestIDFrom returns the request ID recorded by WithRequestID
func RequestIDFrom(ctx context.Context) string { return stringValue(ctx, requestIDKey) }

// TenantIDFrom returns the tenant ID recorded by WithTenantID
func TenantIDFrom(ctx context.Context) string { return stringValue(ctx, tenantIDKey) }

// UserIDFrom returns the user ID recorded by WithUserID
func UserIDFrom(ctx context.Context) string { return stringValue(ctx, userIDKey) }

func stringValue(ctx context.Context, key ctxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
