// Package observability provides the logging, metrics and tracing
// infrastructure shared by the API server and the harvester CLI.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer and HTTP middleware
//
// Example usage:
//
//	import (
//	    "oai-harvester/internal/observability/logging"
//	    "oai-harvester/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.UpdateSourcesTotal(3)
//	}
package observability
