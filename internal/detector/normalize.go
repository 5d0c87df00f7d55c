package detector

import (
	"regexp"
	"strings"
)

// Volatile substrings that vary between charges from the same vendor.
// Trailing digit runs of 7 or more catch store and terminal numbers while
// leaving short counts like "3 items" alone.
var (
	referencePattern     = regexp.MustCompile(`ref#\d+|#\d+`)
	slashDatePattern     = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	isoDatePattern       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	trailingDigitPattern = regexp.MustCompile(`\d{7,}\s*$`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// NormalizeDescription reduces a raw transaction description to a stable
// form so that repeated charges from the same vendor compare as near-equal.
// It lowercases, strips reference tokens, embedded dates, and long trailing
// digit runs, and collapses runs of whitespace to a single space.
func NormalizeDescription(description string) string {
	normalized := strings.ToLower(strings.TrimSpace(description))

	normalized = referencePattern.ReplaceAllString(normalized, "")
	normalized = slashDatePattern.ReplaceAllString(normalized, "")
	normalized = isoDatePattern.ReplaceAllString(normalized, "")
	normalized = trailingDigitPattern.ReplaceAllString(normalized, "")

	normalized = whitespacePattern.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(normalized)
}
