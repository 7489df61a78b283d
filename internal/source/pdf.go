package source

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFFallbackPdftotext controls whether FullText may shell out to
// pdftotext when the library yields no text. Set once at process start
// from configuration, before any document is opened.
var PDFFallbackPdftotext = true

// PDFSource reads a PDF lazily, page by page. FullText preserves row
// structure for title sniffing; if the library yields nothing it falls
// back to pdftotext when available.
type PDFSource struct {
	path              string
	file              *os.File
	reader            *pdflib.Reader
	FallbackPdftotext bool
}

// OpenPDF opens a PDF file for page-oriented extraction.
func OpenPDF(path string) (*PDFSource, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return &PDFSource{path: path, file: f, reader: r, FallbackPdftotext: PDFFallbackPdftotext}, nil
}

func (s *PDFSource) PageCount() int { return s.reader.NumPage() }

func (s *PDFSource) PageText(i int) (string, error) {
	if i < 1 || i > s.reader.NumPage() {
		return "", &ReadError{Path: s.path, Page: i, Err: fmt.Errorf("page out of range (1..%d)", s.reader.NumPage())}
	}
	page := s.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", &ReadError{Path: s.path, Page: i, Err: err}
	}
	return text, nil
}

func (s *PDFSource) FullText() (string, error) {
	var buf strings.Builder
	for i := 1; i <= s.reader.NumPage(); i++ {
		page := s.reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// A single bad page is tolerable here; the per-page pass
			// will surface it with its page number.
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				buf.WriteString(word.S)
			}
			buf.WriteString("\n")
		}
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" && s.FallbackPdftotext {
		// If pdftotext is missing or also finds nothing, the document is
		// simply empty; that is not a read failure.
		if out, err := extractPdftotext(s.path); err == nil {
			return out, nil
		}
	}
	return text, nil
}

func (s *PDFSource) Close() error { return s.file.Close() }

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
