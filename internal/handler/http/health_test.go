package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBreaker gobreaker.State

func (b fixedBreaker) State() gobreaker.State { return gobreaker.State(b) }

func newPingMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		maxOpen        int
		breaker        BreakerStater
		expectedStatus int
		expectedBody   string
		dbStatus       string
	}{
		{
			name:           "healthy database",
			maxOpen:        25,
			expectedStatus: http.StatusOK,
			expectedBody:   statusHealthy,
			dbStatus:       statusHealthy,
		},
		{
			name:           "unbounded pool is degraded",
			expectedStatus: http.StatusOK,
			expectedBody:   statusHealthy,
			dbStatus:       statusDegraded,
		},
		{
			name:           "database connection error",
			pingErr:        sql.ErrConnDone,
			maxOpen:        25,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   statusUnhealthy,
			dbStatus:       statusUnhealthy,
		},
		{
			name:           "open breaker",
			maxOpen:        25,
			breaker:        fixedBreaker(gobreaker.StateOpen),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   statusUnhealthy,
			dbStatus:       statusHealthy,
		},
		{
			name:           "half-open breaker",
			maxOpen:        25,
			breaker:        fixedBreaker(gobreaker.StateHalfOpen),
			expectedStatus: http.StatusOK,
			expectedBody:   statusHealthy,
			dbStatus:       statusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingMock(t)
			db.SetMaxOpenConns(tt.maxOpen)
			mock.ExpectPing().WillReturnError(tt.pingErr)

			handler := &HealthHandler{DB: db, Breaker: tt.breaker, Version: "test-version"}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

			var response HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.expectedBody, response.Status)
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			assert.Equal(t, tt.dbStatus, response.Checks["database"].Status)
			if tt.breaker != nil {
				assert.Equal(t, tt.breaker.State().String(), response.Checks["circuit_breaker"].Details["state"])
			}
		})
	}
}

func TestHealthHandler_NoDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		db, mock := newPingMock(t)
		mock.ExpectPing()

		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", rec.Body.String())
	})

	t.Run("not ready hides the cause", func(t *testing.T) {
		db, mock := newPingMock(t)
		mock.ExpectPing().WillReturnError(sql.ErrConnDone)

		rec := httptest.NewRecorder()
		(&ReadyHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), sql.ErrConnDone.Error())
	})

	t.Run("no database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
