package worker

import (
	"fmt"
	"log/slog"
	"time"

	"ashes-live/internal/pkg/config"
)

// Bounds for RefreshTimeout.
const (
	MinRefreshTimeout = time.Second
	MaxRefreshTimeout = 10 * time.Minute
)

// WorkerConfig holds the configuration of the catalog refresh worker.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default "*/15 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - REFRESH_TIMEOUT: duration between 1s and 10m (default 2m)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - METRICS_PORT: integer 1024-65535 (default 9090)
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression.
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// RefreshTimeout bounds a single catalog refresh.
	RefreshTimeout time.Duration

	// HealthPort serves the liveness and readiness probes.
	HealthPort int

	// MetricsPort serves /metrics and the refresh status.
	MetricsPort int
}

// DefaultConfig returns the worker defaults: a refresh every fifteen
// minutes in UTC with a two minute timeout.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:   "*/15 * * * *",
		Timezone:       "UTC",
		RefreshTimeout: 2 * time.Minute,
		HealthPort:     9091,
		MetricsPort:    9090,
	}
}

// Validate checks every field and returns all failures together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.RefreshTimeout); err != nil {
		errs = append(errs, fmt.Errorf("refresh timeout: %w", err))
	} else if err := config.ValidateDuration(c.RefreshTimeout, MinRefreshTimeout, MaxRefreshTimeout); err != nil {
		errs = append(errs, fmt.Errorf("refresh timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health port and metrics port must differ: both %d", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads the worker configuration from the environment.
// An invalid value falls back to its default with a warning and a
// fallback metric, so the returned config is always usable and the error
// is always nil.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	track := func(field, name string, outcome config.Outcome) {
		if !outcome.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, warning := range outcome.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", name),
				slog.String("warning", warning))
		}
	}

	schedule := config.LoadEnvString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = schedule.Value
	track("cron_schedule", "CronSchedule", schedule.Outcome)

	timezone := config.LoadEnvString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = timezone.Value
	track("timezone", "Timezone", timezone.Outcome)

	timeout := config.LoadEnvDuration("REFRESH_TIMEOUT", cfg.RefreshTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, MinRefreshTimeout, MaxRefreshTimeout)
	})
	cfg.RefreshTimeout = timeout.Value
	track("refresh_timeout", "RefreshTimeout", timeout.Outcome)

	portRange := func(v int) error { return config.ValidateIntRange(v, 1024, 65535) }

	healthPort := config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, portRange)
	cfg.HealthPort = healthPort.Value
	track("health_port", "HealthPort", healthPort.Outcome)

	metricsPort := config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, portRange)
	cfg.MetricsPort = metricsPort.Value
	track("metrics_port", "MetricsPort", metricsPort.Outcome)

	if cfg.HealthPort == cfg.MetricsPort {
		defaults := DefaultConfig()
		logger.Warn("Configuration fallback applied",
			slog.String("field", "MetricsPort"),
			slog.String("warning", fmt.Sprintf("metrics port %d collides with health port, using defaults", cfg.MetricsPort)))
		cfg.HealthPort, cfg.MetricsPort = defaults.HealthPort, defaults.MetricsPort
		fallbackApplied = true
		metrics.RecordValidationError("metrics_port")
		metrics.RecordFallback("metrics_port")
	}

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
