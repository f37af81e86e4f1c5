// Package auth authenticates users by email and password and manages their
// stored credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors for authentication.
var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and unknown badges.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword indicates a password that fails the credential requirements.
	ErrWeakPassword = errors.New("password does not meet requirements")

	// ErrEmailTaken indicates that a user with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

const badgeLength = 8

// CredentialRequirements defines password policy requirements.
type CredentialRequirements struct {
	MinPasswordLength int
	WeakPasswords     []string
}

// DefaultRequirements returns the password policy used when no security
// config is loaded.
func DefaultRequirements() CredentialRequirements {
	return CredentialRequirements{
		MinPasswordLength: 12,
		WeakPasswords:     []string{"password", "123456", "qwerty", "letmein", "admin", "welcome"},
	}
}

// AuthService handles authentication business logic.
type AuthService struct {
	users        repository.UserRepository
	requirements CredentialRequirements
	hashCost     int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, requirements CredentialRequirements) *AuthService {
	return &AuthService{
		users:        users,
		requirements: requirements,
		hashCost:     bcrypt.DefaultCost,
	}
}

// Authenticate returns the user with the given email when password matches.
// Unknown emails still pay for a bcrypt comparison so both failures take
// the same time.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
	})
	return s.dummyHash
}

// UserByBadge resolves the subject of an access token.
// Returns ErrInvalidCredentials when no user has the badge.
func (s *AuthService) UserByBadge(ctx context.Context, badge string) (*entity.User, error) {
	user, err := s.users.GetByBadge(ctx, badge)
	if err != nil {
		return nil, fmt.Errorf("get user by badge: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a user with a bcrypt password hash and a fresh badge.
func (s *AuthService) Register(ctx context.Context, email, password string, isAdmin bool) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := entity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.CheckPassword(password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	badge, err := s.newBadge(ctx)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		Badge:        badge,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("badge", user.Badge),
		slog.Bool("is_admin", user.IsAdmin))
	return user, nil
}

// newBadge returns a short public identifier not yet used by any user.
func (s *AuthService) newBadge(ctx context.Context) (string, error) {
	for range 3 {
		badge := strings.ReplaceAll(uuid.NewString(), "-", "")[:badgeLength]
		existing, err := s.users.GetByBadge(ctx, badge)
		if err != nil {
			return "", fmt.Errorf("check badge: %w", err)
		}
		if existing == nil {
			return badge, nil
		}
	}
	return "", errors.New("could not allocate a unique badge")
}

// CheckPassword applies the credential requirements to password.
func (s *AuthService) CheckPassword(password string) error {
	if len(password) < s.requirements.MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, s.requirements.MinPasswordLength)
	}
	if isRepeatedChar(password) {
		return fmt.Errorf("%w: must not repeat a single character", ErrWeakPassword)
	}
	lower := strings.ToLower(password)
	for _, weak := range s.requirements.WeakPasswords {
		if strings.HasPrefix(lower, strings.ToLower(weak)) {
			return fmt.Errorf("%w: must not be based on a common password", ErrWeakPassword)
		}
	}
	return nil
}

// Requirements returns the password policy.
func (s *AuthService) Requirements() CredentialRequirements {
	return s.requirements
}

func isRepeatedChar(pass string) bool {
	if pass == "" {
		return false
	}
	return strings.Count(pass, pass[:1]) == len(pass)
}
