package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownDieKind is returned for a die name outside the eight kinds.
	ErrUnknownDieKind = errors.New("unknown die kind")
)

// ValidationError names the field that failed and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ValidationError against ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
