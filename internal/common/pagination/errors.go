package pagination

import "errors"

var (
	// ErrInvalidPagingParameter is returned when offset or limit is out of range.
	ErrInvalidPagingParameter = errors.New("invalid paging parameter")

	// ErrInvalidURL is returned when the request URL used to build page links cannot be parsed.
	ErrInvalidURL = errors.New("invalid url")
)
