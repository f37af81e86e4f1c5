package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the result label.
const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	tokenRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_requests_total",
		Help: "Token issues and bearer token checks by role and result",
	}, []string{"role", "result"})

	// Dominated by the bcrypt compare.
	tokenIssueDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_token_issue_duration_seconds",
		Help:    "Time to verify credentials and sign a token, by role",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"role"})

	bearerCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "auth_bearer_check_duration_seconds",
		Help:    "Time to verify a bearer token and load its user",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	forbiddenRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_forbidden_requests_total",
		Help: "Requests rejected with 403 by role and method",
	}, []string{"role", "method"})
)

// RecordAuthRequest counts a token issue or bearer check; result is
// "success" or "failure".
func RecordAuthRequest(role, result string) {
	tokenRequests.WithLabelValues(role, result).Inc()
}

// RecordAuthDuration observes the time taken to issue a token.
func RecordAuthDuration(role string, seconds float64) {
	tokenIssueDuration.WithLabelValues(role).Observe(seconds)
}

// RecordAuthzCheckDuration observes the time taken to resolve a bearer token.
func RecordAuthzCheckDuration(seconds float64) {
	bearerCheckDuration.Observe(seconds)
}

// RecordForbiddenAttempt counts a request refused for lack of privileges.
func RecordForbiddenAttempt(role, method string) {
	forbiddenRequests.WithLabelValues(role, method).Inc()
}
