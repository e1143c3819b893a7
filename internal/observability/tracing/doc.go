// Package tracing provides OpenTelemetry tracing for the harvester.
//
// The API binary wraps its mux with Middleware so every request carries a
// server span. Harvests, page fetches and Identify calls open child spans
// through GetTracer. InstallProvider registers an SDK tracer provider so
// spans get real trace IDs, which the logging middleware and the X-Trace-Id
// response header expose for correlation.
//
// Example usage:
//
//	shutdown := tracing.InstallProvider(1.0)
//	defer func() { _ = shutdown(context.Background()) }()
//
//	ctx, span := tracing.GetTracer().Start(ctx, "harvest.page")
//	defer span.End()
package tracing
