// Package observability wires OpenTelemetry tracing and metrics for
// returner dispatches.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("minion"))
//	defer tp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("minion"))
//	metrics.RecordSend(ctx, "mongo", "ok", duration)
//
// Without Init* the global no-op providers are used, so spans and
// instruments are always safe to create.
package observability
