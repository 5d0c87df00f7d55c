package detector

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a score in [0.0, 1.0] measuring how alike two
// descriptions are, based on edit distance relative to the longer string.
// Comparison is case-insensitive. Two empty strings are identical (1.0);
// one empty string against a non-empty one shares nothing (0.0).
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	// ComputeDistance counts runes, so the length must too or multibyte
	// descriptions score inflated similarity
	distance := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}

	return 1.0 - float64(distance)/float64(maxLen)
}
