package outline

import (
	"strings"
	"unicode/utf8"

	"github.com/dmars/pdfrank/internal/source"
)

// Extract builds the outline for one document. Title detection reads
// the layout-preserving whole-document text; heading detection runs
// over per-page text so every heading carries its page number. The two
// passes deliberately use different extractions.
func Extract(src source.Source, name string) (*Outline, error) {
	full, err := src.FullText()
	if err != nil {
		return nil, err
	}

	o := &Outline{
		Document: name,
		Title:    detectTitle(full),
		Headings: []Heading{},
	}

	sawText := strings.TrimSpace(full) != ""
	for i := 1; i <= src.PageCount(); i++ {
		text, err := src.PageText(i)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) != "" {
			sawText = true
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if IsHeading(line) {
				o.Headings = append(o.Headings, Heading{
					Level: ClassifyLevel(line),
					Text:  line,
					Page:  i,
				})
			}
		}
	}

	if !sawText {
		return o, ErrEmptyDocument
	}
	return o, nil
}

// detectTitle scans the first 10 non-empty lines for one that reads
// like a title.
func detectTitle(full string) string {
	checked := 0
	for _, line := range strings.Split(full, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checked++
		if checked > 10 {
			break
		}
		n := utf8.RuneCountInString(line)
		if n <= 3 || n >= 200 {
			continue
		}
		if isUpperString(line) ||
			(startsUpper(line) && strings.Count(line, " ") <= 10) ||
			titleCaseRe.MatchString(line) {
			return line
		}
	}
	return FallbackTitle
}
