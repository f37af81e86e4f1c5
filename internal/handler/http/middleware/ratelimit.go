package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ashes-live/internal/handler/http/respond"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejected_total",
		Help: "Total number of requests rejected by a rate limiter",
	},
	[]string{"limiter"},
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client token bucket limiter keyed by client IP.
type RateLimiter struct {
	name      string
	limit     rate.Limit
	burst     int
	extractor IPExtractor
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter allows each client rps requests per second on average with
// bursts of up to burst requests. name labels the rejection metric.
func NewRateLimiter(name string, rps float64, burst int, extractor IPExtractor) *RateLimiter {
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	return &RateLimiter{
		name:      name,
		limit:     rate.Limit(rps),
		burst:     burst,
		extractor: extractor,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
	}
}

// Allow consumes one token for key and returns whether the request may
// proceed and, when it may not, how long until a token is available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Duration(math.MaxInt64)
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than idle and returns how many were
// removed. A dropped client starts again with a full bucket.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	cutoff := rl.now().Add(-idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// Middleware rejects requests over the limit with 429 Too Many Requests and
// a Retry-After header in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip = r.RemoteAddr
		}

		if ok, wait := rl.Allow(ip); !ok {
			rateLimitRejectedTotal.WithLabelValues(rl.name).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("limiter", rl.name),
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			respond.JSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfterSeconds(wait time.Duration) int {
	if wait > time.Hour {
		return int(time.Hour / time.Second)
	}
	return max(int(math.Ceil(wait.Seconds())), 1)
}
