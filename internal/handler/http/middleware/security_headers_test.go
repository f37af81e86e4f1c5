package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SecurityHeadersConfig
		wantHeader string
	}{
		{name: "enforced", cfg: SecurityHeadersConfig{CSPEnabled: true}, wantHeader: "Content-Security-Policy"},
		{name: "report only", cfg: SecurityHeadersConfig{CSPEnabled: true, CSPReportOnly: true}, wantHeader: "Content-Security-Policy-Report-Only"},
		{name: "disabled", cfg: SecurityHeadersConfig{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards", nil))

			assert.Equal(t, http.StatusTeapot, rec.Code)
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))

			for _, name := range []string{"Content-Security-Policy", "Content-Security-Policy-Report-Only"} {
				if name == tt.wantHeader {
					assert.Contains(t, rec.Header().Get(name), "default-src 'none'")
				} else {
					assert.Empty(t, rec.Header().Get(name))
				}
			}
		})
	}
}

func TestLoadSecurityHeadersConfig(t *testing.T) {
	t.Setenv("CSP_ENABLED", "")
	t.Setenv("CSP_REPORT_ONLY", "")
	assert.Equal(t, SecurityHeadersConfig{CSPEnabled: true}, LoadSecurityHeadersConfig())

	t.Setenv("CSP_ENABLED", "false")
	t.Setenv("CSP_REPORT_ONLY", "true")
	assert.Equal(t, SecurityHeadersConfig{CSPReportOnly: true}, LoadSecurityHeadersConfig())
}
