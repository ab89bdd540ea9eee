// Package sanitize strips markup and unsafe characters from free-text input
// before it is stored or logged.
package sanitize

import (
	"regexp"
	"strings"
)

// Tags are removed whole before the allow-list runs, so tag names never
// reach the output.
var (
	tagPattern        = regexp.MustCompile(`<.*?>`)
	disallowedPattern = regexp.MustCompile(`[^A-Za-z0-9_@.\-]`)
)

// Sanitize returns nil for nil input and "" for whitespace-only input.
// Otherwise it removes every <...> tag, then every character outside
// [A-Za-z0-9_@.-], then trims. It never fails and is idempotent.
func Sanitize(input *string) *string {
	if input == nil {
		return nil
	}
	out := String(*input)
	return &out
}

// String is Sanitize for callers that have no notion of an absent value.
func String(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = disallowedPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
