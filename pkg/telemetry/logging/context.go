package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// LoadIDKey is the context key for load identifiers.
	LoadIDKey contextKey = "load_id"

	// ResourceKey is the context key for the resource being loaded.
	ResourceKey contextKey = "resource"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithLoadID adds a load identifier to the context.
func WithLoadID(ctx context.Context, loadID string) context.Context {
	return context.WithValue(ctx, LoadIDKey, loadID)
}

// GetLoadID retrieves the load identifier from the context.
func GetLoadID(ctx context.Context) string {
	if id, ok := ctx.Value(LoadIDKey).(string); ok {
		return id
	}
	return ""
}

// WithResource adds the current resource name to the context.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, ResourceKey, resource)
}

// GetResource retrieves the resource name from the context.
func GetResource(ctx context.Context) string {
	if r, ok := ctx.Value(ResourceKey).(string); ok {
		return r
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}

// contextAttrs extracts the log fields present in ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if v := GetLoadID(ctx); v != "" {
		attrs = append(attrs, slog.String(string(LoadIDKey), v))
	}
	if v := GetResource(ctx); v != "" {
		attrs = append(attrs, slog.String(string(ResourceKey), v))
	}
	if v := GetTraceID(ctx); v != "" {
		attrs = append(attrs, slog.String(string(TraceIDKey), v))
	}
	return attrs
}
