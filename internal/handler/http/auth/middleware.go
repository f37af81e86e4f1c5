package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/respond"
	authservice "ashes-live/internal/service/auth"
)

type ctxKey struct{}

// UserResolver looks up the user named by a token subject.
type UserResolver interface {
	UserByBadge(ctx context.Context, badge string) (*entity.User, error)
}

// Middleware resolves bearer tokens to users.
type Middleware struct {
	Issuer *TokenIssuer
	Users  UserResolver
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*entity.User)
	return user, ok && user != nil
}

// Authenticate resolves an optional bearer token. Requests without an
// Authorization header pass through anonymously; a header carrying an
// invalid token, or a token whose user no longer exists, is rejected with 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
			unauthorized(w, errors.New("invalid authorization header"))
			return
		}
		claims, err := m.Issuer.Parse(token)
		if err != nil {
			RecordAuthRequest("unknown", resultFailure)
			unauthorized(w, err)
			return
		}
		user, err := m.Users.UserByBadge(r.Context(), claims.Subject)
		if err != nil {
			RecordAuthRequest(claims.Role, resultFailure)
			if errors.Is(err, authservice.ErrInvalidCredentials) {
				unauthorized(w, ErrInvalidToken)
				return
			}
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		RecordAuthRequest(user.Role(), resultSuccess)
		RecordAuthzCheckDuration(time.Since(start).Seconds())

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireUser rejects anonymous requests with 401. It must run after Authenticate.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			unauthorized(w, errors.New("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admin users with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w, errors.New("authentication required"))
			return
		}
		if !user.IsAdmin {
			RecordForbiddenAttempt(user.Role(), r.Method)
			slog.Warn("forbidden access attempt",
				slog.String("badge", user.Badge),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			respond.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden: admin required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized: " + respond.SanitizeError(err)})
}
