package outline

import "errors"

// Level is the hierarchical depth assigned to a heading.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// FallbackTitle is used when no line of the document qualifies as a title.
const FallbackTitle = "Untitled Document"

// ErrEmptyDocument marks a source with no extractable text. Callers get
// a minimal outline alongside it; treating it as fatal is their call.
var ErrEmptyDocument = errors.New("document has no extractable text")

// Heading is one classified structural line. Immutable once classified.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the extracted title plus ordered headings for one document,
// in page-then-appearance order.
type Outline struct {
	Document string    `json:"-"`
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}
