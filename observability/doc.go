// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is opt-in: with Config.Enabled false the OpenTelemetry globals stay
// no-op and spans and instruments cost nothing.
//
//	shutdown, err := observability.Setup(ctx, cfg)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
//	defer observability.EndSpan(span, err)
//
//	metrics, _ := observability.NewPipelineMetrics(observability.Meter())
//	metrics.RecordRun(ctx, "success")
package observability
