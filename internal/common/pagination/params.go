package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params is the requested window into an ordered result set.
type Params struct {
	Offset int // Number of rows to skip, >= 0
	Limit  int // Maximum rows to return, > 0
}

// ParseQueryParams parses the offset and limit query parameters of r.
// Missing parameters fall back to offset 0 and config.DefaultLimit.
//
// Query parameters:
//   - offset: rows to skip (must be a non-negative integer)
//   - limit: rows per page (must be between 1 and config.MaxLimit)
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Offset: 0,
		Limit:  config.DefaultLimit,
	}
	query := r.URL.Query()

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("%w: invalid query parameter: offset must be a non-negative integer", ErrInvalidPagingParameter)
		}
		params.Offset = offset
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, fmt.Errorf("%w: invalid query parameter: limit must be between 1 and %d", ErrInvalidPagingParameter, config.MaxLimit)
		}
		params.Limit = limit
	}

	return params, nil
}

// RequestURL rebuilds the absolute URL the client requested. The scheme is
// taken from the TLS state or an X-Forwarded-Proto header.
func RequestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
