// Package textmatch implements the case-insensitive substring matching used
// by lesson search and the dictionary view.
package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Normalize prepares a user query: surrounding whitespace is dropped and the
// rest is case-folded. An empty result means "match everything".
func Normalize(query string) string {
	return Fold(strings.TrimSpace(query))
}

// Contains reports whether haystack contains the already normalized needle,
// ignoring case. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), needle)
}

// AnyContains reports whether any of the fields contains the normalized needle.
func AnyContains(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if Contains(f, needle) {
			return true
		}
	}
	return false
}
