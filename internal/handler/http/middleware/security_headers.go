package middleware

import (
	"net/http"

	"ashes-live/pkg/config"
	"ashes-live/pkg/security/csp"
)

// SecurityHeadersConfig controls the Content-Security-Policy header.
type SecurityHeadersConfig struct {
	CSPEnabled    bool
	CSPReportOnly bool
}

// LoadSecurityHeadersConfig reads CSP_ENABLED (default true) and
// CSP_REPORT_ONLY (default false).
func LoadSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		CSPEnabled:    config.GetEnvBool("CSP_ENABLED", true),
		CSPReportOnly: config.GetEnvBool("CSP_REPORT_ONLY", false),
	}
}

// SecurityHeaders sets nosniff, frame denial and no-referrer on every
// response, plus the API content security policy when enabled.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	policy := csp.APIPolicy().ReportOnly(cfg.CSPReportOnly)
	header, value := policy.HeaderName(), policy.Build()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if cfg.CSPEnabled {
				h.Set(header, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
