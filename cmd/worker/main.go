package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pgRepo "ashes-live/internal/infra/adapter/persistence/postgres"
	"ashes-live/internal/infra/db"
	workerPkg "ashes-live/internal/infra/worker"
	"ashes-live/internal/observability/logging"
	"ashes-live/internal/resilience/circuitbreaker"
	cardUC "ashes-live/internal/usecase/card"
	relUC "ashes-live/internal/usecase/release"

	"github.com/robfig/cron/v3"
)

// waitForMigrations blocks until the API has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) error {
	const probe = "SELECT 1 FROM cards LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-time.After(3 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.New("migrations did not complete in time")
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := waitForMigrations(ctx, logger, database); err != nil {
		logger.Error("database schema unavailable", slog.Any("error", err))
		os.Exit(1)
	}

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("refresh_timeout", workerConfig.RefreshTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	releaseRepo := pgRepo.NewReleaseRepo(breaker)
	refresher := &workerPkg.CatalogRefresher{
		Cards:    &cardUC.Service{Repo: pgRepo.NewCardRepo(breaker), Releases: releaseRepo},
		Releases: &relUC.Service{Repo: releaseRepo},
		DB:       database,
		Timeout:  workerConfig.RefreshTimeout,
		Metrics:  workerMetrics,
		Logger:   logger,
	}

	metricsSrv := startMetricsServer(ctx, logger, workerConfig.MetricsPort, refresher)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	healthDone := make(chan struct{})
	go func() {
		defer close(healthDone)
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	c, err := startCronWorker(ctx, logger, refresher, workerConfig)
	if err != nil {
		logger.Error("failed to schedule catalog refresh", slog.Any("error", err))
		os.Exit(1)
	}
	healthServer.SetReady(true)

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)

	// Wait for a running refresh to finish.
	<-c.Stop().Done()
	<-healthDone
	<-metricsSrv.done
	logger.Info("worker stopped")
}

// startCronWorker refreshes the catalog once, then schedules the refresh.
// Overlapping runs are skipped.
func startCronWorker(ctx context.Context, logger *slog.Logger, refresher *workerPkg.CatalogRefresher, cfg *workerPkg.WorkerConfig) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(cfg.CronSchedule, func() {
		// Errors are recorded by the refresher.
		_, _ = refresher.Run(ctx)
	}); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}

	_, _ = refresher.Run(ctx)
	c.Start()

	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", loc.String()))
	return c, nil
}
