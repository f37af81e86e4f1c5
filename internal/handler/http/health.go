// Package http provides the HTTP surface of the card database: health and
// metrics endpoints and the middleware shared by every route. Resource
// handlers live in the card, release and auth subpackages.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"ashes-live/internal/handler/http/respond"

	"github.com/sony/gobreaker"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	// poolDegradedPercent is the pool utilization at which the database
	// check reports degraded.
	poolDegradedPercent = 80.0
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string         `json:"message,omitempty"` // Optional status message
	Details map[string]any `json:"details,omitempty"` // Optional additional details
}

// BreakerStater reports the state of a circuit breaker.
type BreakerStater interface {
	State() gobreaker.State
}

// HealthHandler reports database connectivity, connection pool usage and the
// state of the database circuit breaker.
type HealthHandler struct {
	DB      *sql.DB
	Breaker BreakerStater // optional
	Version string
}

// ServeHTTP returns 200 OK when every check is healthy or degraded, and
// 503 Service Unavailable when any check is unhealthy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	} else {
		checks["database"] = CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if h.Breaker != nil {
		checks["circuit_breaker"] = checkBreaker(h.Breaker)
	}

	status := statusHealthy
	statusCode := http.StatusOK
	for _, c := range checks {
		if c.Status == statusUnhealthy {
			status = statusUnhealthy
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// checkDatabase checks database connectivity and returns connection pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{
			Status:  statusUnhealthy,
			Message: respond.SanitizeError(err),
		}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	// MaxOpenConnections is 0 when the pool is unbounded.
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= poolDegradedPercent {
		return CheckStatus{
			Status:  statusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}

	return CheckStatus{Status: statusHealthy, Details: details}
}

// checkBreaker reports an open breaker as unhealthy and a half-open one as degraded.
func checkBreaker(b BreakerStater) CheckStatus {
	state := b.State()
	details := map[string]any{"state": state.String()}
	switch state {
	case gobreaker.StateOpen:
		return CheckStatus{Status: statusUnhealthy, Message: "database circuit open", Details: details}
	case gobreaker.StateHalfOpen:
		return CheckStatus{Status: statusDegraded, Message: "database circuit recovering", Details: details}
	default:
		return CheckStatus{Status: statusHealthy, Details: details}
	}
}

// ReadyHandler handles readiness probe requests.
// It checks if the database connection is established and ready to accept traffic.
type ReadyHandler struct {
	DB *sql.DB
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable if the
// database does not answer a ping.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().Warn("readiness check failed", slog.String("error", respond.SanitizeError(err)))
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	writePlain(w, "ready")
}

// LiveHandler handles liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writePlain(w, "alive")
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Error("failed to write probe response", slog.Any("error", err))
	}
}
