package worker

import (
	"ashes-live/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics holds the Prometheus metrics of the refresh worker. It
// embeds ConfigMetrics for configuration fallbacks and adds:
//   - worker_cron_job_runs_total{status}
//   - worker_cron_job_duration_seconds
//   - worker_cron_job_cards_counted
//   - worker_cron_job_last_success_timestamp
//
// Metrics are registered through promauto, so NewWorkerMetrics must be
// called once per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal counts refresh runs by status (success, failure).
	CronJobRunsTotal *prometheus.CounterVec

	// CronJobDurationSeconds observes the duration of each run.
	CronJobDurationSeconds prometheus.Histogram

	// CronJobCardsCounted is the number of current cards seen by the last
	// successful run.
	CronJobCardsCounted prometheus.Gauge

	// CronJobLastSuccessTimestamp is the Unix time of the last successful run.
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of catalog refresh runs by status (success/failure)",
		}, []string{"status"}),

		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of catalog refresh runs in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
		}),

		CronJobCardsCounted: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_cards_counted",
			Help: "Number of current cards counted by the last successful refresh",
		}),

		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful catalog refresh",
		}),
	}
}

// RecordJobRun increments the run counter for status ("success" or "failure").
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes the duration of a run in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordCardsCounted sets the number of cards counted by a run.
func (m *WorkerMetrics) RecordCardsCounted(count int64) {
	m.CronJobCardsCounted.Set(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
