// Package card provides use cases for listing, viewing and creating cards.
package card

import "errors"

// Sentinel errors for card use case operations.
var (
	// ErrCardNotFound indicates that no card has the requested stub.
	ErrCardNotFound = errors.New("card not found")

	// ErrDuplicateCard indicates that a card with the same stub already exists
	// in the same era (current or legacy).
	ErrDuplicateCard = errors.New("card with this stub already exists")

	// ErrInvalidStub indicates an empty card stub.
	ErrInvalidStub = errors.New("invalid card stub")
)
