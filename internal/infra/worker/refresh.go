package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ashes-live/internal/handler/http/respond"
	"ashes-live/internal/observability/metrics"
	"ashes-live/internal/resilience/retry"

	"golang.org/x/sync/errgroup"
)

// CardCounter counts current cards per card type.
type CardCounter interface {
	CountByType(ctx context.Context) (map[string]int64, error)
}

// ReleaseCounter counts public releases.
type ReleaseCounter interface {
	CountPublic(ctx context.Context) (int64, error)
}

// StatsSource reports connection pool statistics. *sql.DB satisfies it.
type StatsSource interface {
	Stats() sql.DBStats
}

// RefreshResult is the outcome of one catalog refresh.
type RefreshResult struct {
	StartedAt      time.Time        `json:"started_at"`
	Duration       time.Duration    `json:"duration_ns"`
	Success        bool             `json:"success"`
	CardsByType    map[string]int64 `json:"cards_by_type,omitempty"`
	Cards          int64            `json:"cards"`
	PublicReleases int64            `json:"public_releases"`
	Error          string           `json:"error,omitempty"`
}

// CatalogRefresher recomputes the catalog gauges from the database.
type CatalogRefresher struct {
	Cards    CardCounter
	Releases ReleaseCounter
	// DB is optional; when set, its pool statistics are exported on each run.
	DB      StatsSource
	Timeout time.Duration
	Metrics *WorkerMetrics
	Logger  *slog.Logger

	mu   sync.RWMutex
	last *RefreshResult
}

// Run performs one refresh bounded by r.Timeout. The card and release
// counts run concurrently and each is retried on transient failures.
func (r *CatalogRefresher) Run(ctx context.Context) (RefreshResult, error) {
	start := time.Now()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var (
		byType map[string]int64
		public int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return retry.WithBackoff(gctx, retry.DBConfig(), func() error {
			counts, err := r.Cards.CountByType(gctx)
			if err != nil {
				return err
			}
			byType = counts
			return nil
		})
	})
	g.Go(func() error {
		return retry.WithBackoff(gctx, retry.DBConfig(), func() error {
			n, err := r.Releases.CountPublic(gctx)
			if err != nil {
				return err
			}
			public = n
			return nil
		})
	})
	err := g.Wait()

	result := RefreshResult{StartedAt: start.UTC(), Duration: time.Since(start), Success: err == nil}
	if err != nil {
		err = fmt.Errorf("refresh catalog: %w", err)
		result.Error = respond.SanitizeError(err)
	} else {
		result.CardsByType = byType
		result.PublicReleases = public
		for _, n := range byType {
			result.Cards += n
		}
	}
	r.record(result)
	return result, err
}

func (r *CatalogRefresher) record(result RefreshResult) {
	r.mu.Lock()
	r.last = &result
	r.mu.Unlock()

	if r.DB != nil {
		metrics.UpdateDBConnectionStats(r.DB.Stats())
	}
	metrics.RecordCatalogRefresh(result.Success, result.Duration)

	status := "failure"
	if result.Success {
		status = "success"
		metrics.UpdateCardsByType(result.CardsByType)
		metrics.UpdatePublicReleases(result.PublicReleases)
	}
	if r.Metrics != nil {
		r.Metrics.RecordJobRun(status)
		r.Metrics.RecordJobDuration(result.Duration.Seconds())
		if result.Success {
			r.Metrics.RecordCardsCounted(result.Cards)
			r.Metrics.RecordLastSuccess()
		}
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !result.Success {
		logger.Error("catalog refresh failed",
			slog.Duration("duration", result.Duration),
			slog.String("error", result.Error))
		return
	}
	logger.Info("catalog refreshed",
		slog.Duration("duration", result.Duration),
		slog.Int64("cards", result.Cards),
		slog.Int("card_types", len(result.CardsByType)),
		slog.Int64("public_releases", result.PublicReleases))
}

// Last returns the result of the most recent run, if any.
func (r *CatalogRefresher) Last() (RefreshResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return RefreshResult{}, false
	}
	return *r.last, true
}
