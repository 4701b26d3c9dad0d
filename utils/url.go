package utils

import "regexp"

// trailingIndexPattern matches a trailing "/", "/index.html" or
// "/index.html/" so that variants of the same article URL compare equal.
var trailingIndexPattern = regexp.MustCompile(`/(index\.html)?/?$`)

// CleanURL normalizes an article URL before any storage or lookup
// comparison. "https://site/a/", "https://site/a/index.html" and
// "https://site/a" all resolve to the same logical article.
func CleanURL(url string) string {
	return trailingIndexPattern.ReplaceAllString(url, "")
}
