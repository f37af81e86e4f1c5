package repository

import "errors"

// ErrDuplicate is returned by Create when a unique key (a stub within its
// era, an email) is already taken.
var ErrDuplicate = errors.New("duplicate key")
