// Package release provides use cases for card releases and the releases
// each user owns.
package release

import "errors"

// Sentinel errors for release use case operations.
var (
	// ErrReleaseNotFound indicates that a release stub matched no public release.
	ErrReleaseNotFound = errors.New("release not found")

	// ErrDuplicateRelease indicates that a release with the same stub already exists.
	ErrDuplicateRelease = errors.New("release with this stub already exists")
)
