package http

import (
	"context"
	"log/slog"
	"time"

	"ashes-live/internal/handler/http/middleware"
	"ashes-live/pkg/config"
)

// DefaultCleanupInterval is the default cleanup interval if not specified.
const DefaultCleanupInterval = 5 * time.Minute

// CleanupConfig holds configuration for rate limit cleanup.
type CleanupConfig struct {
	// Interval specifies how often to run cleanup.
	Interval time.Duration
	// Idle is how long a client may go without requests before its bucket
	// is dropped.
	Idle time.Duration
}

// LoadCleanupConfigFromEnv reads RATELIMIT_CLEANUP_INTERVAL and
// RATELIMIT_IDLE_TIMEOUT. Invalid values fall back to the defaults.
func LoadCleanupConfigFromEnv() CleanupConfig {
	cfg := CleanupConfig{
		Interval: config.GetEnvDuration("RATELIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval),
		Idle:     config.GetEnvDuration("RATELIMIT_IDLE_TIMEOUT", 10*time.Minute),
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCleanupInterval
	}
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	return cfg
}

// StartRateLimitCleanup drops idle buckets from limiter every cfg.Interval
// until ctx is cancelled. It blocks; run it in its own goroutine.
func StartRateLimitCleanup(ctx context.Context, limiter *middleware.RateLimiter, cfg CleanupConfig, limiterType string) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.String("limiter_type", limiterType),
		slog.Duration("interval", cfg.Interval),
		slog.Duration("idle", cfg.Idle))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped",
				slog.String("limiter_type", limiterType))
			return
		case <-ticker.C:
			removed := limiter.Cleanup(cfg.Idle)
			slog.Debug("rate limit cleanup completed",
				slog.String("limiter_type", limiterType),
				slog.Int("keys_removed", removed),
				slog.Int("active_keys", limiter.Len()))
		}
	}
}
