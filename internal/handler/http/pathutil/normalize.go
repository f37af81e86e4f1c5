// Package pathutil maps request paths to route templates for use as metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// UnmatchedPath is the label for paths that match no known route.
const UnmatchedPath = "/other"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// staticPaths are routes without path parameters.
var staticPaths = map[string]struct{}{
	"/":              {},
	"/health":        {},
	"/ready":         {},
	"/live":          {},
	"/metrics":       {},
	"/auth/token":    {},
	"/cards":         {},
	"/releases":      {},
	"/releases/mine": {},
}

// pathPatterns are evaluated in order after the static paths.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/cards/[\p{Ll}\p{Lo}\p{N}][\p{Ll}\p{Lo}\p{N}-]*$`), Template: "/cards/:stub"},
}

// NormalizePath converts a request path to its route template so that metric
// label cardinality stays bounded. Card stubs collapse to /cards/:stub and
// any path outside the API collapses to UnmatchedPath.
//
// Examples:
//
//	NormalizePath("/cards/aradel-summergaard")  // "/cards/:stub"
//	NormalizePath("/cards/鳳凰-法師")             // "/cards/:stub"
//	NormalizePath("/cards?offset=30")           // "/cards"
//	NormalizePath("/releases/mine/")            // "/releases/mine"
//	NormalizePath("/wp-admin.php")              // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return UnmatchedPath
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath
// can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
