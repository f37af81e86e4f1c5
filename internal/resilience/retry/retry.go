// Package retry re-runs database operations that failed for transient
// reasons, backing off exponentially with jitter between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Config shapes the backoff schedule.
type Config struct {
	MaxAttempts    int // including the first call
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	JitterFraction float64 // 0.0 to 1.0 of the delay, added on top
}

// DefaultConfig suits calls to slow external dependencies.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// DBConfig retries a single query quickly.
func DBConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// StartupConfig waits for Postgres to accept connections at process start,
// when it may still be booting next to the API container.
func StartupConfig() Config {
	return Config{MaxAttempts: 6, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	delay := cfg.InitialDelay
	var err error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			slog.Warn("non-retryable error, aborting", slog.Int("attempt", attempt), slog.Any("error", err))
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", delay),
			slog.Any("error", err))

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = addJitter(min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay), cfg.JitterFraction)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// ErrTransient marks an error as retryable regardless of its type.
var ErrTransient = errors.New("transient failure")

// retryableSQLStates are Postgres error codes worth another attempt:
// serialization failures, deadlocks and a server that is starting up or
// shutting down.
var retryableSQLStates = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"57P01": true, // admin_shutdown
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
}

// IsRetryable reports whether err is transient. Context errors never are.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrTransient):
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 is connection exception.
		return retryableSQLStates[pgErr.Code] || strings.HasPrefix(pgErr.Code, "08")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1.0)
	// #nosec G404 -- jitter does not need a secure source.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
