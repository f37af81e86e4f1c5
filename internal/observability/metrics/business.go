package metrics

import (
	"database/sql"
	"strconv"
	"time"
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize int64, responseSize int) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// UpdateCardsByType replaces the per-type card gauges with counts. Types
// absent from counts are removed.
func UpdateCardsByType(counts map[string]int64) {
	CardsTotal.Reset()
	for cardType, n := range counts {
		CardsTotal.WithLabelValues(cardType).Set(float64(n))
	}
}

// UpdatePublicReleases sets the public release gauge.
func UpdatePublicReleases(count int64) {
	ReleasesPublicTotal.Set(float64(count))
}

// RecordCardCreated counts a created card.
func RecordCardCreated(cardType string) {
	CardsCreatedTotal.WithLabelValues(cardType).Inc()
}

// RecordCollectionUpdate counts a replaced user collection.
func RecordCollectionUpdate() {
	CollectionUpdatesTotal.Inc()
}

// RecordCatalogRefresh records the outcome and duration of a catalog refresh.
func RecordCatalogRefresh(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	CatalogRefreshTotal.WithLabelValues(result).Inc()
	CatalogRefreshDuration.Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsInUse.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
	DBConnectionWaitTotal.Set(float64(stats.WaitCount))
}
