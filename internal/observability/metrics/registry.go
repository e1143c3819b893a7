// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Harvest metrics track repository harvesting and the protocol client
var (
	// SourcesTotal tracks total number of registered repositories
	SourcesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_total",
			Help: "Total number of sources in the database",
		},
	)

	// RecordsHarvestedTotal counts harvested records by outcome
	RecordsHarvestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_harvested_total",
			Help: "Total number of records processed by harvests",
		},
		[]string{"source_id", "outcome"}, // outcome: created, updated, skipped
	)

	// HarvestPagesTotal counts ListRecords pages processed
	HarvestPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvest_pages_total",
			Help: "Total number of ListRecords pages processed",
		},
		[]string{"source_id"},
	)

	// HarvestDuration measures time to harvest one source
	HarvestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harvest_duration_seconds",
			Help:    "Time taken to harvest a source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
		},
		[]string{"source_id"},
	)

	// HarvestErrors counts failed harvests by error kind
	HarvestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harvest_errors_total",
			Help: "Total number of failed harvests",
		},
		[]string{"source_id", "error_type"},
	)

	// PublishersBackfilledTotal counts sources whose publisher was filled from their records
	PublishersBackfilledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "publishers_backfilled_total",
			Help: "Total number of source publishers filled from harvested records",
		},
	)

	// OAIRequestsTotal counts protocol requests by verb and result
	OAIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oai_requests_total",
			Help: "Total number of OAI-PMH requests",
		},
		[]string{"verb", "result"}, // result: success, failure
	)

	// OAIRequestDuration measures protocol request latency
	OAIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oai_request_duration_seconds",
			Help:    "OAI-PMH request duration in seconds",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8, 25.6},
		},
		[]string{"verb"},
	)

	// OAIResponseSize measures response body size in bytes
	OAIResponseSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oai_response_size_bytes",
			Help:    "OAI-PMH response body size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 9),
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
