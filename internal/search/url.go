package search

import "strings"

// BuildURL joins the configured API base with path. An empty base yields a relative path.
func BuildURL(base, path string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return base + path
}
