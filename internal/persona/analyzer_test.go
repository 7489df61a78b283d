package persona

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/source"
)

type stubSource struct {
	pages []string
	full  string
}

func (s *stubSource) PageCount() int { return len(s.pages) }

func (s *stubSource) PageText(i int) (string, error) {
	if i < 1 || i > len(s.pages) {
		return "", fmt.Errorf("page out of range: %d", i)
	}
	return s.pages[i-1], nil
}

func (s *stubSource) FullText() (string, error) { return s.full, nil }

func (s *stubSource) Close() error { return nil }

func testAnalyzer(t *testing.T, docs map[string]*stubSource) *Analyzer {
	t.Helper()
	a := NewAnalyzer(embed.NewHashEmbedder(256), slog.New(slog.NewTextHandler(io.Discard, nil)), 2)
	a.open = func(path string) (source.Source, error) {
		src, ok := docs[path]
		if !ok {
			return nil, &source.ReadError{Path: path, Err: fmt.Errorf("no such document")}
		}
		return src, nil
	}
	return a
}

func TestAnalyze_RejectsBadDocumentCount(t *testing.T) {
	a := testAnalyzer(t, nil)

	for _, n := range []int{0, 2, 11} {
		paths := make([]string, n)
		for i := range paths {
			paths[i] = fmt.Sprintf("doc%d.pdf", i)
		}
		_, err := a.Analyze(context.Background(), paths, "persona", "job")
		var invalid *InvalidInputError
		if !errors.As(err, &invalid) {
			t.Errorf("count %d: expected InvalidInputError, got %v", n, err)
		}
	}
}

func TestAnalyze_RanksRelevantSectionsFirst(t *testing.T) {
	docs := map[string]*stubSource{
		"ml.pdf": {
			full: "Machine Learning Systems Handbook\n",
			pages: []string{
				"Machine Learning Pipeline Architecture\nthe body explains how to assemble the stages",
				"Appendix: Glossary\nterms and their definitions listed alphabetically",
			},
		},
		"ops.pdf": {
			full:  "Operations Runbook\n",
			pages: []string{"Incident Response Checklist\nwho to page and when"},
		},
		"hr.pdf": {
			full:  "Employee Handbook\n",
			pages: []string{"Vacation Policy Summary\nhow many days and how to request them"},
		},
	}
	a := testAnalyzer(t, docs)

	report, err := a.Analyze(context.Background(),
		[]string{"ml.pdf", "ops.pdf", "hr.pdf"},
		"Data Scientist", "Implement a machine learning pipeline")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if len(report.ExtractedSections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(report.ExtractedSections))
	}
	if got := report.ExtractedSections[0].SectionTitle; got != "Machine Learning Pipeline Architecture" {
		t.Errorf("expected pipeline section ranked first, got %q", got)
	}
	for i := 1; i < len(report.ExtractedSections); i++ {
		if report.ExtractedSections[i].ImportanceRank > report.ExtractedSections[i-1].ImportanceRank {
			t.Errorf("ranks not descending at %d", i)
		}
	}

	if len(report.SubSectionAnalyses) != 4 {
		t.Errorf("expected 4 insights, got %d", len(report.SubSectionAnalyses))
	}
	if len(report.Metadata.Documents) != 3 {
		t.Errorf("metadata should list all inputs, got %v", report.Metadata.Documents)
	}
	if report.Metadata.PersonaDescription != "Data Scientist" {
		t.Errorf("persona not carried into metadata: %q", report.Metadata.PersonaDescription)
	}
	if len(report.Metadata.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", report.Metadata.Warnings)
	}
}

func TestAnalyze_UnreadableDocumentBecomesWarning(t *testing.T) {
	docs := map[string]*stubSource{
		"a.pdf": {full: "First Report Title\n", pages: []string{"OVERVIEW\nbody text for the first document"}},
		"b.pdf": {full: "Second Report Title\n", pages: []string{"SUMMARY\nbody text for the second document"}},
	}
	a := testAnalyzer(t, docs)

	report, err := a.Analyze(context.Background(),
		[]string{"a.pdf", "missing.pdf", "b.pdf"}, "persona", "job")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Metadata.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", report.Metadata.Warnings)
	}
	if report.Metadata.Warnings[0].Document != "missing.pdf" {
		t.Errorf("warning names wrong document: %+v", report.Metadata.Warnings[0])
	}
	for _, s := range report.ExtractedSections {
		if s.Document == "missing.pdf" {
			t.Errorf("skipped document leaked into sections: %+v", s)
		}
	}
}

func TestAnalyze_EmptyDocumentStillIncluded(t *testing.T) {
	docs := map[string]*stubSource{
		"a.pdf":     {full: "Full Report Title\n", pages: []string{"FINDINGS\nbody text worth reading"}},
		"b.pdf":     {full: "Other Report Title\n", pages: []string{"METHODS\nmore body text here"}},
		"empty.pdf": {full: "", pages: []string{""}},
	}
	a := testAnalyzer(t, docs)

	report, err := a.Analyze(context.Background(),
		[]string{"a.pdf", "b.pdf", "empty.pdf"}, "persona", "job")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Metadata.Warnings) != 1 {
		t.Fatalf("expected a warning for the empty document, got %v", report.Metadata.Warnings)
	}
	if report.Metadata.Warnings[0].Document != "empty.pdf" {
		t.Errorf("warning names wrong document: %+v", report.Metadata.Warnings[0])
	}
	// The empty document contributes no sections but does not fail the run.
	if len(report.ExtractedSections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(report.ExtractedSections))
	}
}

func TestAnalyze_AllDocumentsFail(t *testing.T) {
	a := testAnalyzer(t, nil)
	_, err := a.Analyze(context.Background(),
		[]string{"x.pdf", "y.pdf", "z.pdf"}, "persona", "job")
	if err == nil {
		t.Fatal("expected error when every document fails")
	}
	var invalid *InvalidInputError
	if errors.As(err, &invalid) {
		t.Errorf("total failure should not be an input error: %v", err)
	}
}
