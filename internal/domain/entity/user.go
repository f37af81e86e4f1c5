package entity

import (
	"net/mail"
	"time"
)

// User is an account that can sign in and own releases.
// Badge is the public identifier placed in token subjects.
type User struct {
	ID           int64
	Email        string
	Badge        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Role returns the authorization role of the user.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// ValidateEmail checks that email is a bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	return nil
}
