package source

import (
	"os"
	"path/filepath"
	"testing"
)

// minimalPDF is a valid single-page PDF with no text content. Offsets
// in the xref table are byte-exact.
const minimalPDF = "%PDF-1.4\n" +
	"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
	"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
	"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n" +
	"xref\n0 4\n" +
	"0000000000 65535 f \n" +
	"0000000009 00000 n \n" +
	"0000000058 00000 n \n" +
	"0000000115 00000 n \n" +
	"trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n203\n%%EOF\n"

func writeMinimalPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := os.WriteFile(path, []byte(minimalPDF), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestOpenPDF_HonorsFallbackSetting(t *testing.T) {
	path := writeMinimalPDF(t)

	orig := PDFFallbackPdftotext
	defer func() { PDFFallbackPdftotext = orig }()

	PDFFallbackPdftotext = false
	src, err := OpenPDF(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()
	if src.FallbackPdftotext {
		t.Error("fallback should be disabled when the package setting is off")
	}

	PDFFallbackPdftotext = true
	src2, err := OpenPDF(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src2.Close()
	if !src2.FallbackPdftotext {
		t.Error("fallback should be enabled when the package setting is on")
	}
}
