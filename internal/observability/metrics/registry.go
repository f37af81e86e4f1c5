package metrics

import (
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

	// HTTPRequestDuration measures HTTP request duration in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
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
)

// Catalog metrics describe the card database contents.
var (
	// CardsTotal tracks current cards per card type
	CardsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cards_total",
			Help: "Number of current cards in the database by card type",
		},
		[]string{"card_type"},
	)

	// ReleasesPublicTotal tracks public releases
	ReleasesPublicTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "releases_public_total",
			Help: "Number of public releases in the database",
		},
	)

	// CardsCreatedTotal counts cards created through the API
	CardsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cards_created_total",
			Help: "Total number of cards created",
		},
		[]string{"card_type"},
	)

	// CollectionUpdatesTotal counts replaced user collections
	CollectionUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_updates_total",
			Help: "Total number of user collection updates",
		},
	)

	// CatalogRefreshTotal counts catalog statistics refreshes by result
	CatalogRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Total number of catalog statistics refreshes",
		},
		[]string{"result"},
	)

	// CatalogRefreshDuration measures one catalog statistics refresh
	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Time taken to refresh catalog statistics",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)
)

// Database metrics track the connection pool
var (
	// DBConnectionsInUse tracks connections currently in use
	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections in use",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// DBConnectionWaitTotal counts connections waited for
	DBConnectionWaitTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connection_wait_count",
			Help: "Cumulative number of connections waited for",
		},
	)
)
