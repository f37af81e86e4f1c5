package http

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routeAnnotation = regexp.MustCompile(`(?m)^// @Router\s+(\S+)\s+\[(\w+)\]$`)

// Every API route carries the swag annotations its OpenAPI entry is built from.
func TestRouteAnnotations(t *testing.T) {
	files, err := filepath.Glob("*/*.go")
	require.NoError(t, err)

	documented := map[string]bool{}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range routeAnnotation.FindAllStringSubmatch(string(src), -1) {
			documented[m[2]+" "+m[1]] = true
		}
	}

	for _, route := range []string{
		"post /auth/token",
		"get /cards",
		"get /cards/{stub}",
		"post /cards",
		"get /releases",
		"post /releases",
		"put /releases/mine",
	} {
		assert.True(t, documented[route], "route %q has no @Router annotation", route)
	}
}
