package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsSupportedExtension(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"page.html", true},
		{"page.htm", true},
		{"memo.docx", true},
		{"plain.txt", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noextension", false},
	}
	for _, tc := range cases {
		if got := IsSupportedExtension(tc.name); got != tc.want {
			t.Errorf("IsSupportedExtension(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOpen_UnsupportedExtension(t *testing.T) {
	if _, err := Open("document.xyz"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "gone.txt"))
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadError should unwrap to the underlying cause: %v", err)
	}
}

func TestOpenText_SinglePage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.txt")
	content := "Budget Memo\nALLOCATIONS\nthe numbers follow below\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if src.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", src.PageCount())
	}
	page, err := src.PageText(1)
	if err != nil {
		t.Fatalf("page text: %v", err)
	}
	if page != content {
		t.Errorf("page text mismatch: %q", page)
	}
	full, err := src.FullText()
	if err != nil {
		t.Fatalf("full text: %v", err)
	}
	if full != content {
		t.Errorf("full text mismatch: %q", full)
	}
}

func TestOpenMarkdown_SectionsBecomePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	// h1 and each h2 open a page; the h3 stays inside Section A's page.
	if src.PageCount() != 3 {
		t.Fatalf("expected 3 pages, got %d", src.PageCount())
	}

	p1, _ := src.PageText(1)
	if !strings.HasPrefix(p1, "Title\n") || !strings.Contains(p1, "Intro text.") {
		t.Errorf("page 1 mismatch: %q", p1)
	}
	p2, _ := src.PageText(2)
	if !strings.HasPrefix(p2, "Section A\n") || !strings.Contains(p2, "Subsection A1") {
		t.Errorf("page 2 mismatch: %q", p2)
	}
	p3, _ := src.PageText(3)
	if !strings.HasPrefix(p3, "Section B\n") {
		t.Errorf("page 3 mismatch: %q", p3)
	}
}

func TestMemSource_PageOutOfRange(t *testing.T) {
	src := &memSource{path: "doc.txt", pages: []string{"only page"}}
	for _, i := range []int{0, 2} {
		_, err := src.PageText(i)
		var readErr *ReadError
		if !errors.As(err, &readErr) {
			t.Errorf("page %d: expected ReadError, got %v", i, err)
		}
	}
}
