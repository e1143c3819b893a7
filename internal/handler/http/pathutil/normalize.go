package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the API routes that embed a source ID, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/sources/\d+/harvest$`), Template: "/sources/:id/harvest"},
	{Pattern: regexp.MustCompile(`^/sources/\d+/refresh$`), Template: "/sources/:id/refresh"},
	{Pattern: regexp.MustCompile(`^/sources/\d+$`), Template: "/sources/:id"},
}

// knownStatic lists the routes without path parameters.
var knownStatic = map[string]bool{
	"/":                  true,
	"/sources":           true,
	"/sources/identify":  true,
	"/sources/sets":      true,
	"/harvests":          true,
	"/harvests/backfill": true,
	"/health":            true,
	"/ready":             true,
	"/live":              true,
	"/metrics":           true,
}

// unmatchedTemplate labels every path the API does not serve.
const unmatchedTemplate = "/:unmatched"

// NormalizePath maps a request path to a bounded metrics label.
//
// Examples:
//
//	NormalizePath("/sources/42")          // "/sources/:id"
//	NormalizePath("/sources/42/harvest")  // "/sources/:id/harvest"
//	NormalizePath("/harvests/")           // "/harvests"
//	NormalizePath("/sources/42?x=1")      // "/sources/:id"
//	NormalizePath("/wp-login.php")        // "/:unmatched"
//
// Unknown paths collapse to one label so scanners cannot grow the series count.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if knownStatic[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return unmatchedTemplate
}

// GetExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(pathPatterns) + len(knownStatic) + 1
}
