package source

import (
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// OpenDOCX parses a .docx file. Paragraphs styled Heading1/Heading2
// open a new synthesized page.
func OpenDOCX(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	var pages []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			pages = append(pages, current.String())
		}
		current.Reset()
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 && level <= 2 {
			flush()
		}
		current.WriteString(text)
		current.WriteString("\n")
	}
	flush()

	return &memSource{path: path, pages: pages, full: strings.Join(pages, "\n")}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
