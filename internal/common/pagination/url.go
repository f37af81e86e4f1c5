package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const offsetParam = "offset"

// ReplaceOffset returns rawURL with its offset query parameter set to offset.
//
// Every other query parameter is kept exactly as written and in its original
// position. An existing offset parameter is rewritten in place (later
// duplicates are dropped); a missing one is appended. When offset is 0 the
// parameter is removed entirely rather than serialized as offset=0. Scheme,
// host, path and fragment are left untouched.
//
// ReplaceOffset never mutates its input and is idempotent for a given offset.
func ReplaceOffset(rawURL string, offset int) (string, error) {
	if offset < 0 {
		return "", fmt.Errorf("%w: offset cannot be negative", ErrInvalidPagingParameter)
	}
	u, err := parseURL(rawURL)
	if err != nil {
		return "", err
	}

	segments := strings.Split(u.RawQuery, "&")
	out := make([]string, 0, len(segments)+1)
	seen := false
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if isOffsetSegment(seg) {
			if !seen && offset > 0 {
				out = append(out, offsetSegment(offset))
			}
			seen = true
			continue
		}
		out = append(out, seg)
	}
	if !seen && offset > 0 {
		out = append(out, offsetSegment(offset))
	}

	u.RawQuery = strings.Join(out, "&")
	if u.RawQuery == "" {
		u.ForceQuery = false
	}
	return u.String(), nil
}

// parseURL parses rawURL and its query string, mapping failures to ErrInvalidURL.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if _, err := url.ParseQuery(u.RawQuery); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return u, nil
}

func isOffsetSegment(seg string) bool {
	key, _, _ := strings.Cut(seg, "=")
	name, err := url.QueryUnescape(key)
	return err == nil && name == offsetParam
}

func offsetSegment(offset int) string {
	return offsetParam + "=" + strconv.Itoa(offset)
}
