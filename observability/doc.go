// Package observability wires OpenTelemetry tracing and metrics.
//
//	shutdown, err := observability.Setup(ctx, cfg.Tracing, observability.Resource{
//	    ServiceName: "speakeralign",
//	})
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanDiarize)
//	defer span.End()
//
// Metrics exposes the pipeline instruments: runs, run and stage durations,
// stage errors and segments per transcript.
package observability
