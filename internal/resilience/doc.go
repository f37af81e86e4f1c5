// Package resilience groups the fault tolerance helpers used around the
// database: a circuit breaker that stops hammering an unavailable Postgres
// and retry with exponential backoff for transient connection failures.
//
// Usage Example:
//
//	guarded := circuitbreaker.NewDBCircuitBreaker(db)
//	repo := postgres.NewCardRepo(guarded)
//
//	err := retry.WithBackoff(ctx, retry.StartupConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
