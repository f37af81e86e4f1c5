package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"ashes-live/pkg/config"
)

// CORSConfig holds the cross-origin policy of the API.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of exact origins, or ["*"] for any origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long preflight results may be cached, in seconds.
	MaxAge int
}

// DefaultCORSConfig allows no origins.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig reads CORS_ALLOWED_ORIGINS, CORS_ALLOWED_METHODS,
// CORS_ALLOWED_HEADERS and CORS_MAX_AGE over the defaults.
func LoadCORSConfig() (CORSConfig, error) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = config.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil)
	cfg.AllowedMethods = config.GetEnvStringList("CORS_ALLOWED_METHODS", cfg.AllowedMethods)
	cfg.AllowedHeaders = config.GetEnvStringList("CORS_ALLOWED_HEADERS", cfg.AllowedHeaders)
	cfg.MaxAge = config.GetEnvInt("CORS_MAX_AGE", cfg.MaxAge)
	return cfg, cfg.Validate()
}

// Validate checks that every origin is "*" or a bare scheme://host[:port].
func (c CORSConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || (u.Path != "" && u.Path != "/") {
			return fmt.Errorf("invalid CORS origin %q: must be scheme://host[:port]", origin)
		}
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("invalid CORS max age %d: must be non-negative", c.MaxAge)
	}
	return nil
}

func (c CORSConfig) allowed(origin string) bool {
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, strings.TrimSuffix(origin, "/"))
}

// CORS sets CORS headers for allowed origins and answers preflight requests
// with 204 No Content. Requests from other origins pass through without CORS
// headers, so the browser blocks the response.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !cfg.allowed(origin) {
				slog.Debug("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
