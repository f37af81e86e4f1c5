// Package auth issues and verifies the JWT access tokens of the API and
// provides the middleware that resolves the requesting user.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/respond"
	authservice "ashes-live/internal/service/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the minimum length of the token signing secret (256 bits).
const MinSecretLength = 32

// ErrInvalidToken is returned for tokens that fail signature, algorithm or
// expiry checks.
var ErrInvalidToken = errors.New("invalid token")

var weakSecrets = []string{"secret", "password", "changeme", "jwt_secret", "test"}

// ValidateSecret rejects empty, short and well-known signing secrets.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("jwt secret is required")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.ReplaceAll(lower, weak, "") == "" {
			return errors.New("jwt secret must not repeat a common word")
		}
	}
	return nil
}

// Claims are the claims carried by an access token. The subject is the
// user's badge and the ID is a dash-free uuid.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer whose tokens expire after ttl.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for user and its expiry time.
func (i *TokenIssuer) Issue(user *entity.User) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		Role: user.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Badge,
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and returns its claims. Only HS256 is accepted
// and the exp claim is required.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// Authenticator checks a user's credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*entity.User, error)
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Badge       string    `json:"badge"`
}

// TokenHandler exchanges an email and password for an access token.
// It accepts a JSON body {"email","password"} or an OAuth2 password form
// with username and password fields.
//
// @Summary      Issue an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body object true "email and password"
// @Success      200 {object} tokenResponse
// @Failure      400 {string} string "Bad request - invalid input"
// @Failure      401 {string} string "Invalid credentials"
// @Failure      429 {string} string "Too many requests - rate limit exceeded"
// @Header       429 {integer} Retry-After "Seconds until the client should retry"
// @Router       /auth/token [post]
func TokenHandler(svc Authenticator, issuer *TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		email, password, err := readCredentials(r)
		if err != nil {
			RecordAuthRequest("unknown", resultFailure)
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), email, password)
		if err != nil {
			RecordAuthRequest("unknown", resultFailure)
			if errors.Is(err, authservice.ErrInvalidCredentials) {
				respond.SafeError(w, http.StatusUnauthorized, err)
				return
			}
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}

		token, expiresAt, err := issuer.Issue(user)
		if err != nil {
			RecordAuthRequest(user.Role(), resultFailure)
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}

		RecordAuthRequest(user.Role(), resultSuccess)
		RecordAuthDuration(user.Role(), time.Since(start).Seconds())
		slog.Info("access token issued",
			slog.String("badge", user.Badge),
			slog.String("role", user.Role()))

		w.Header().Set("Cache-Control", "no-store")
		respond.JSON(w, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   expiresAt.UTC(),
			Badge:       user.Badge,
		})
	}
}

func readCredentials(r *http.Request) (string, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return "", "", fmt.Errorf("invalid form body: %w", err)
		}
		email, password := r.PostForm.Get("username"), r.PostForm.Get("password")
		if email == "" || password == "" {
			return "", "", errors.New("username and password are required")
		}
		return email, password, nil
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", errors.New("invalid JSON body")
	}
	if req.Email == "" || req.Password == "" {
		return "", "", errors.New("email and password are required")
	}
	return req.Email, req.Password, nil
}
