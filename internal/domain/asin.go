package domain

import "regexp"

// Known product URL path shapes, tried in order. Each captures the
// 10-character item code.
var asinURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([0-9A-Za-z]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/gp/product/([0-9A-Za-z]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/[^/]+/dp/([0-9A-Za-z]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/[^/]+/product/([0-9A-Za-z]{10})(?:[/?]|$)`),
	regexp.MustCompile(`/[^/]+/([0-9A-Za-z]{10})/`),
}

// asinPattern validates a candidate identifier: exactly 10 alphanumeric
// characters, case-insensitive.
var asinPattern = regexp.MustCompile(`^[0-9A-Za-z]{10}$`)

// ExtractASIN parses a product URL into its ASIN. Returns false when no known
// path shape matches.
func ExtractASIN(rawURL string) (string, bool) {
	for _, pattern := range asinURLPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// IsValidASIN reports whether s is a well-formed ASIN. Applied to
// caller-supplied identifiers that did not come from a URL.
func IsValidASIN(s string) bool {
	return asinPattern.MatchString(s)
}
