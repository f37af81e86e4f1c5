package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	workerPkg "ashes-live/internal/infra/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RefreshStatus is the body of GET /health/refresh.
type RefreshStatus struct {
	Healthy bool                     `json:"healthy"`
	Last    *workerPkg.RefreshResult `json:"last,omitempty"`
}

type metricsServer struct {
	*http.Server
	done chan struct{}
}

// startMetricsServer serves, on port:
//   - GET /metrics: Prometheus metrics
//   - GET /health/refresh: result of the last catalog refresh, 503 when it failed
//
// The server shuts down within five seconds of ctx being cancelled, after
// which done is closed.
func startMetricsServer(ctx context.Context, logger *slog.Logger, port int, refresher *workerPkg.CatalogRefresher) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health/refresh", refreshStatusHandler(refresher))

	server := &metricsServer{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		done: make(chan struct{}),
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		defer close(server.done)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
			return
		}
		logger.Info("metrics server stopped")
	}()

	return server
}

// refreshStatusHandler reports the last refresh. Before the first run the
// worker is considered unhealthy.
func refreshStatusHandler(refresher *workerPkg.CatalogRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := RefreshStatus{}
		if last, ok := refresher.Last(); ok {
			status.Healthy = last.Success
			status.Last = &last
		}

		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
