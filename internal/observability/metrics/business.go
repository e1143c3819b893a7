package metrics

import (
	"strconv"
	"time"
)

// RecordHarvest records the outcome of one completed harvest.
func RecordHarvest(sourceID int64, duration time.Duration, pages, created, updated, skipped int) {
	id := strconv.FormatInt(sourceID, 10)
	HarvestDuration.WithLabelValues(id).Observe(duration.Seconds())
	HarvestPagesTotal.WithLabelValues(id).Add(float64(pages))

	if created > 0 {
		RecordsHarvestedTotal.WithLabelValues(id, "created").Add(float64(created))
	}
	if updated > 0 {
		RecordsHarvestedTotal.WithLabelValues(id, "updated").Add(float64(updated))
	}
	if skipped > 0 {
		RecordsHarvestedTotal.WithLabelValues(id, "skipped").Add(float64(skipped))
	}
}

// RecordHarvestError records a failed harvest.
// errorType is the error kind, e.g. "transport" or "oai_error".
func RecordHarvestError(sourceID int64, errorType string) {
	HarvestErrors.WithLabelValues(strconv.FormatInt(sourceID, 10), errorType).Inc()
}

// RecordPublisherBackfill records sources filled by one backfill pass.
func RecordPublisherBackfill(filled int) {
	PublishersBackfilledTotal.Add(float64(filled))
}

// RecordOAIRequest records one protocol request.
// size is ignored when the request failed before a body was read.
func RecordOAIRequest(verb string, success bool, duration time.Duration, size int) {
	result := "success"
	if !success {
		result = "failure"
	}
	OAIRequestsTotal.WithLabelValues(verb, result).Inc()
	OAIRequestDuration.WithLabelValues(verb).Observe(duration.Seconds())
	if size > 0 {
		OAIResponseSize.Observe(float64(size))
	}
}

// UpdateSourcesTotal updates the total count of sources in the database.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "upsert_record", "list_sources").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
