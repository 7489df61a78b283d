package persona

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/outline"
)

// RankedSection is one heading scored against the persona vector.
// SimilarityScore is the raw cosine value; ImportanceRank is the
// level-adjusted score, clamped to [0,1], that orders the output.
type RankedSection struct {
	Document        string        `json:"document"`
	Page            int           `json:"page"`
	SectionTitle    string        `json:"section_title"`
	Level           outline.Level `json:"level"`
	SimilarityScore float64       `json:"similarity_score"`
	ImportanceRank  float64       `json:"importance_rank"`
}

// levelMultiplier weights importance by heading level: main headings
// get a boost, sub-headings a slight penalty.
func levelMultiplier(l outline.Level) float64 {
	switch l {
	case outline.H1:
		return 1.2
	case outline.H3:
		return 0.8
	default:
		return 1.0
	}
}

// PersonaVector embeds the persona description and job-to-be-done as
// one concatenated text. Built once per analysis request and reused
// for every section comparison.
func PersonaVector(ctx context.Context, e embed.Embedder, personaDesc, job string) ([]float32, error) {
	vec, err := e.Embed(ctx, personaDesc+" "+job)
	if err != nil {
		return nil, fmt.Errorf("embed persona: %w", err)
	}
	return vec, nil
}

// RankSections flattens every heading across all outlines into one
// sequence ordered by importance, descending. The sort is stable, so
// ties keep the supplied document-then-page-then-appearance order.
func RankSections(ctx context.Context, e embed.Embedder, outlines []*outline.Outline, personaVec []float32) ([]RankedSection, error) {
	sections := []RankedSection{}
	for _, o := range outlines {
		for _, h := range o.Headings {
			vec, err := e.Embed(ctx, h.Text)
			if err != nil {
				return nil, fmt.Errorf("embed section %q: %w", h.Text, err)
			}
			sim := embed.Cosine(vec, personaVec)
			sections = append(sections, RankedSection{
				Document:        o.Document,
				Page:            h.Page,
				SectionTitle:    h.Text,
				Level:           h.Level,
				SimilarityScore: sim,
				ImportanceRank:  clamp01(sim * levelMultiplier(h.Level)),
			})
		}
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].ImportanceRank > sections[j].ImportanceRank
	})
	return sections, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
