package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"ashes-live/internal/domain/entity"
	authservice "ashes-live/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-characters-long-for-testing"

var (
	testUser  = &entity.User{ID: 1, Email: "player@example.com", Badge: "a1b2c3d4"}
	testAdmin = &entity.User{ID: 2, Email: "admin@example.com", Badge: "0f0f0f0f", IsAdmin: true}
)

func newTestIssuer(now time.Time) *TokenIssuer {
	i := NewTokenIssuer([]byte(testSecret), time.Hour)
	i.now = func() time.Time { return now }
	return i
}

type stubAuthenticator struct {
	user *entity.User
	err  error
}

func (s stubAuthenticator) Authenticate(_ context.Context, email, password string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if email != s.user.Email || password != "phoenix-born-2024" {
		return nil, authservice.ErrInvalidCredentials
	}
	return s.user, nil
}

/* ───────── ValidateSecret ───────── */

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"empty", "", true},
		{"short", "too-short", true},
		{"repeated common word", strings.Repeat("secret", 6), true},
		{"strong", testSecret, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			assert.Equal(t, tt.wantErr, err != nil, "err=%v", err)
		})
	}
}

/* ───────── Issue / Parse ───────── */

func TestTokenIssuer_IssueAndParse(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	issuer := newTestIssuer(now)

	token, expiresAt, err := issuer.Issue(testAdmin)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, testAdmin.Badge, claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Len(t, claims.ID, 32)
	assert.NotContains(t, claims.ID, "-")
}

func TestTokenIssuer_Parse_Rejects(t *testing.T) {
	now := time.Now()
	issuer := newTestIssuer(now)

	valid, _, err := issuer.Issue(testUser)
	require.NoError(t, err)

	expired, _, err := newTestIssuer(now.Add(-2*time.Hour)).Issue(testUser)
	require.NoError(t, err)

	otherKey, _, err := NewTokenIssuer([]byte(strings.Repeat("k", 40)), time.Hour).Issue(testUser)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a1b2c3d4"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a1b2c3d4", "exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	header, _ := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	payload, _ := json.Marshal(map[string]any{"sub": "a1b2c3d4", "exp": now.Add(time.Hour).Unix()})
	none := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload) + "."

	tests := map[string]string{
		"expired":        expired,
		"wrong key":      otherKey,
		"missing exp":    noExp,
		"other hmac alg": hs512,
		"none alg":       none,
		"tampered":       valid[:len(valid)-2] + "xx",
		"garbage":        "not-a-token",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

/* ───────── TokenHandler ───────── */

func TestTokenHandler_JSON(t *testing.T) {
	issuer := newTestIssuer(time.Now())
	h := TokenHandler(stubAuthenticator{user: testUser}, issuer)
	before := testutil.ToFloat64(tokenRequests.WithLabelValues("user", "success"))

	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"email":"player@example.com","password":"phoenix-born-2024"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Badge       string `json:"badge"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body.TokenType)
	assert.Equal(t, testUser.Badge, body.Badge)

	claims, err := issuer.Parse(body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.Badge, claims.Subject)
	assert.Equal(t, before+1, testutil.ToFloat64(tokenRequests.WithLabelValues("user", "success")))
}

func TestTokenHandler_Form(t *testing.T) {
	h := TokenHandler(stubAuthenticator{user: testUser}, newTestIssuer(time.Now()))

	form := url.Values{"username": {"player@example.com"}, "password": {"phoenix-born-2024"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestTokenHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		auth     stubAuthenticator
		body     string
		wantCode int
		wantMsg  string
	}{
		{"malformed json", stubAuthenticator{user: testUser}, `{`, http.StatusBadRequest, "invalid JSON body"},
		{"missing password", stubAuthenticator{user: testUser}, `{"email":"player@example.com"}`, http.StatusBadRequest, "required"},
		{"wrong password", stubAuthenticator{user: testUser}, `{"email":"player@example.com","password":"nope"}`, http.StatusUnauthorized, "invalid credentials"},
		{"store failure", stubAuthenticator{err: errors.New("connection refused")}, `{"email":"a@b.c","password":"x"}`, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := TokenHandler(tt.auth, newTestIssuer(time.Now()))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantMsg)
			assert.NotContains(t, rr.Body.String(), "access_token")
		})
	}
}
