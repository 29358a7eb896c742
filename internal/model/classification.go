// Package model defines the core domain models used throughout the application.
package model

// RefinementNeed indicates how much a prompt would benefit from refinement.
type RefinementNeed string

// Refinement need levels.
const (
	RefinementLow    RefinementNeed = "low"
	RefinementMedium RefinementNeed = "medium"
	RefinementHigh   RefinementNeed = "high"
)

// RefinementNeedFor maps a quality score to a refinement need.
func RefinementNeedFor(qualityScore int) RefinementNeed {
	switch {
	case qualityScore < 30:
		return RefinementHigh
	case qualityScore < 50:
		return RefinementMedium
	default:
		return RefinementLow
	}
}

// ClassificationSource records which pipeline stage produced a result.
type ClassificationSource string

// Classification sources.
const (
	SourceFastPath  ClassificationSource = "fast_path"
	SourceSmartPath ClassificationSource = "smart_path"
)

// CategoryScore is the accumulated evidence for one category during a single
// classification call.
type CategoryScore struct {
	Name    string
	Matches []string
	Weight  int
}

// SimilarityMatch is a corpus prompt similar to the classified prompt.
type SimilarityMatch struct {
	Content  string
	Category string
	Title    string
	Score    float64
}

// ClassificationResult is the outcome of classifying one prompt. A result is
// created fresh per call and is not mutated after it is returned.
type ClassificationResult struct {
	Scores          map[CategoryID]CategoryScore
	PrimaryCategory CategoryID
	Source          ClassificationSource
	RefinementNeed  RefinementNeed
	Reasoning       []string
	KeyIndicators   []string
	SimilarPrompts  []SimilarityMatch
	Confidence      float64
	TotalWeight     int
	QualityScore    int
	HasSharedImages bool
}

// Score returns the score recorded for a category, or a zero score.
func (r ClassificationResult) Score(id CategoryID) CategoryScore {
	return r.Scores[id]
}
