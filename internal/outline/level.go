package outline

import (
	"regexp"
	"unicode/utf8"
)

var (
	numberedRe  = regexp.MustCompile(`^\d+\.\s+[A-Z]`)
	romanRe     = regexp.MustCompile(`^[IVX]+\.\s+[A-Z]`)
	titleCaseRe = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*$`)
)

type levelRule struct {
	match func(string) bool
	level Level
}

// levelRules is a fixed-priority decision list: first match wins. The
// rules are evaluated per candidate, never across the document, so the
// resulting outline may be locally inconsistent (an H2 with no H1
// before it). That mirrors the heuristic source signal.
var levelRules = []levelRule{
	{
		// Main chapter titles: numbered, roman-numbered, or shouted.
		match: func(t string) bool {
			return numberedRe.MatchString(t) ||
				romanRe.MatchString(t) ||
				(isUpperString(t) && utf8.RuneCountInString(t) > 5)
		},
		level: H1,
	},
	{
		// Section headings: moderate-length Title Case.
		match: func(t string) bool {
			n := utf8.RuneCountInString(t)
			return titleCaseRe.MatchString(t) && n > 10 && n < 50
		},
		level: H2,
	},
}

// ClassifyLevel assigns a hierarchical level to a candidate's text.
// Never fails: anything the rules don't claim is H3.
func ClassifyLevel(text string) Level {
	for _, rule := range levelRules {
		if rule.match(text) {
			return rule.level
		}
	}
	return H3
}
