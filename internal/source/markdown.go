package source

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// OpenMarkdown parses a Markdown file with goldmark. Markdown has no
// physical pages, so top-level sections (headings of level 1-2) become
// successive pages; the heading line stays at the top of its page so
// the downstream scan still sees it.
func OpenMarkdown(path string) (Source, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var pages []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			pages = append(pages, current.String())
		}
		current.Reset()
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if node.Level <= 2 {
				flush()
			}
			current.WriteString(title)
			current.WriteString("\n")
		default:
			if t := markdownText(n, src); t != "" {
				current.WriteString(t)
				current.WriteString("\n")
			}
		}
	}
	flush()

	return &memSource{path: path, pages: pages, full: strings.Join(pages, "\n")}, nil
}

// markdownText gets the text content of a goldmark AST node.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(markdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
