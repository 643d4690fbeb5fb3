// Package tracing wires OpenTelemetry tracing for bean definition loads.
//
// When tracing is disabled New returns a Tracer backed by the no-op provider,
// so callers start spans unconditionally:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(ctx)
//	ctx, span := tracer.Start(ctx, "beans.load")
//	defer span.End()
//
// Spans are exported over OTLP/gRPC.
package tracing
