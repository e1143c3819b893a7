// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Harvest metrics (pages, record outcomes, failures by kind)
//   - OAI-PMH client metrics (requests per verb, latency, body size)
//   - Database query metrics
//
// All metrics are registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "oai-harvester/internal/observability/metrics"
//
//	func harvestOne(id int64) {
//	    start := time.Now()
//	    // ... walk ListRecords pages ...
//	    metrics.RecordHarvest(id, time.Since(start), pages, created, updated, skipped)
//	}
package metrics
