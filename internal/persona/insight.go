package persona

import "fmt"

// Insight is a templated explanation for one top-ranked section. No
// model inference: both texts are keyed off similarity bands.
type Insight struct {
	Document             string `json:"document"`
	RefinedText          string `json:"refined_text"`
	Page                 int    `json:"page"`
	OriginalTitle        string `json:"original_title"`
	RelevanceExplanation string `json:"relevance_explanation"`
}

// TopSections is how many ranked sections receive an insight.
const TopSections = 10

// Insights generates explanations for the top-ranked sections.
func Insights(sections []RankedSection) []Insight {
	top := sections
	if len(top) > TopSections {
		top = top[:TopSections]
	}

	insights := []Insight{}
	for _, s := range top {
		insights = append(insights, Insight{
			Document:             s.Document,
			RefinedText:          refinedText(s),
			Page:                 s.Page,
			OriginalTitle:        s.SectionTitle,
			RelevanceExplanation: explainRelevance(s),
		})
	}
	return insights
}

func explainRelevance(s RankedSection) string {
	switch {
	case s.SimilarityScore > 0.8:
		return fmt.Sprintf("'%s' directly addresses your primary objectives with high relevance.", s.SectionTitle)
	case s.SimilarityScore > 0.6:
		return fmt.Sprintf("'%s' provides valuable context and supporting information for your goals.", s.SectionTitle)
	default:
		return fmt.Sprintf("'%s' offers background information that may be useful for your research.", s.SectionTitle)
	}
}

func refinedText(s RankedSection) string {
	var relevance string
	switch {
	case s.SimilarityScore > 0.7:
		relevance = "highly relevant"
	case s.SimilarityScore > 0.5:
		relevance = "moderately relevant"
	default:
		relevance = "somewhat relevant"
	}
	return fmt.Sprintf(
		"This section on '%s' is %s to your needs. It appears on page %d and addresses key aspects related to your persona and objectives.",
		s.SectionTitle, relevance, s.Page,
	)
}
