// Package metrics holds the Prometheus collectors shared by the API server
// and the worker: HTTP traffic, database pool usage and catalog statistics.
//
// Collectors register with the default registry and are served on /metrics.
//
//	counts, _ := cards.CountByType(ctx)
//	metrics.UpdateCardsByType(counts)
package metrics
