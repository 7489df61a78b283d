package persona

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/outline"
	"github.com/dmars/pdfrank/internal/source"
)

// Document count bounds for one analysis request.
const (
	MinDocuments = 3
	MaxDocuments = 10
)

// InvalidInputError reports a caller contract violation. Fatal for the
// whole request; nothing is processed.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// Warning records a document that was skipped during analysis.
type Warning struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// Metadata describes one analysis run.
type Metadata struct {
	Documents          []string  `json:"documents"`
	PersonaDescription string    `json:"persona_description"`
	JobToBeDone        string    `json:"job_to_be_done"`
	Timestamp          time.Time `json:"timestamp"`
	ProcessingTimeMs   int64     `json:"processing_time_ms"`
	Warnings           []Warning `json:"warnings,omitempty"`
}

// Report is the full persona-analysis result.
type Report struct {
	Metadata           Metadata        `json:"metadata"`
	ExtractedSections  []RankedSection `json:"extracted_sections"`
	SubSectionAnalyses []Insight       `json:"sub_section_analyses"`
}

// Analyzer runs persona-driven analysis over a set of documents. The
// embedder is shared, read-only state loaded once at process start.
type Analyzer struct {
	embedder embed.Embedder
	log      *slog.Logger
	workers  int

	// open is swappable in tests.
	open func(path string) (source.Source, error)
}

func NewAnalyzer(e embed.Embedder, log *slog.Logger, workers int) *Analyzer {
	if workers <= 0 {
		workers = 4
	}
	return &Analyzer{
		embedder: e,
		log:      log,
		workers:  workers,
		open:     source.Open,
	}
}

// Analyze extracts outlines from 3-10 documents, ranks every heading
// against the persona vector and generates insights for the top
// sections. Per-document failures are folded into warnings; the call
// fails only when the input contract is violated or no outline at all
// could be produced.
func (a *Analyzer) Analyze(ctx context.Context, paths []string, personaDesc, job string) (*Report, error) {
	if len(paths) < MinDocuments || len(paths) > MaxDocuments {
		return nil, &InvalidInputError{
			Reason: fmt.Sprintf("document count must be between %d and %d, got %d", MinDocuments, MaxDocuments, len(paths)),
		}
	}

	start := time.Now()

	// Outline extraction has no cross-document dependency, so the
	// documents fan out over a bounded pool. Results are folded back
	// in input order to keep the final tie-break deterministic.
	type docResult struct {
		outline *outline.Outline
		err     error
	}
	results := make([]docResult, len(paths))
	sem := make(chan struct{}, a.workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			o, err := a.extractOne(path)
			results[i] = docResult{outline: o, err: err}
		}(i, path)
	}
	wg.Wait()

	var outlines []*outline.Outline
	var warnings []Warning
	for i, r := range results {
		if r.err != nil {
			a.log.Warn("document skipped", "document", paths[i], "error", r.err)
			warnings = append(warnings, Warning{Document: paths[i], Reason: r.err.Error()})
			if !errors.Is(r.err, outline.ErrEmptyDocument) {
				continue
			}
			// Empty documents still yield a minimal outline.
		}
		outlines = append(outlines, r.outline)
	}
	if len(outlines) == 0 {
		return nil, fmt.Errorf("no document could be processed")
	}

	personaVec, err := PersonaVector(ctx, a.embedder, personaDesc, job)
	if err != nil {
		return nil, err
	}

	sections, err := RankSections(ctx, a.embedder, outlines, personaVec)
	if err != nil {
		return nil, err
	}

	return &Report{
		Metadata: Metadata{
			Documents:          paths,
			PersonaDescription: personaDesc,
			JobToBeDone:        job,
			Timestamp:          start.UTC(),
			ProcessingTimeMs:   time.Since(start).Milliseconds(),
			Warnings:           warnings,
		},
		ExtractedSections:  sections,
		SubSectionAnalyses: Insights(sections),
	}, nil
}

func (a *Analyzer) extractOne(path string) (*outline.Outline, error) {
	src, err := a.open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return outline.Extract(src, path)
}
