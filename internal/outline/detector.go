package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexical heading patterns, checked in order. Plain-text extraction
// carries no font or position metadata, so these surface regularities
// are the only signal. The set is deliberately permissive: leveling and
// ranking de-emphasize weak candidates downstream.
var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][A-Z\s]{2,}$`),               // ALL CAPS run
	regexp.MustCompile(`^\d+\.\s+[A-Z]`),                   // "1. Title"
	regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`), // Title Case phrase
	regexp.MustCompile(`^[IVX]+\.\s+[A-Z]`),                // "IV. Title"
}

// IsHeading reports whether a single line of page text is a heading
// candidate. Pure per-line check; no cross-line context.
func IsHeading(text string) bool {
	if utf8.RuneCountInString(text) < 3 {
		return false
	}
	for _, re := range headingPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	// Fallback: short line that is shouted or starts a short capitalized phrase.
	if utf8.RuneCountInString(text) < 100 &&
		(isUpperString(text) || (startsUpper(text) && strings.Count(text, " ") <= 8)) {
		return true
	}
	return false
}

// isUpperString reports whether text contains at least one cased letter
// and no lowercase ones.
func isUpperString(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
