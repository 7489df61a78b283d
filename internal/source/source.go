package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source provides page-oriented access to one document's text.
// PageText is used for heading scanning (page attribution matters),
// FullText for title sniffing (line structure matters).
type Source interface {
	PageCount() int
	PageText(i int) (string, error) // 1-based
	FullText() (string, error)
	Close() error
}

// ReadError reports an unreadable or corrupt document source.
type ReadError struct {
	Path string
	Page int // last page reached, 0 if the document never opened
	Err  error
}

func (e *ReadError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("read %s (page %d): %v", e.Path, e.Page, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".txt":      true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Open returns the appropriate source for a file path.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return OpenPDF(path)
	case ".md", ".markdown":
		return OpenMarkdown(path)
	case ".html", ".htm":
		return OpenHTML(path)
	case ".docx":
		return OpenDOCX(path)
	case ".txt":
		return OpenText(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// memSource holds fully materialized pages for formats that are parsed
// up front (everything except PDF).
type memSource struct {
	path  string
	pages []string
	full  string
}

func (s *memSource) PageCount() int { return len(s.pages) }

func (s *memSource) PageText(i int) (string, error) {
	if i < 1 || i > len(s.pages) {
		return "", &ReadError{Path: s.path, Page: i, Err: fmt.Errorf("page out of range (1..%d)", len(s.pages))}
	}
	return s.pages[i-1], nil
}

func (s *memSource) FullText() (string, error) { return s.full, nil }

func (s *memSource) Close() error { return nil }
