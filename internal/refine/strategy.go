package refine

import "github.com/Veraticus/promptsmith/internal/model"

// Strategy names one refinement approach.
type Strategy string

// Refinement strategies, in the order they are considered.
const (
	StrategyLight   Strategy = "light_enhancement"
	StrategyGrammar Strategy = "grammar_correction"
	StrategyImage   Strategy = "image_refinement"
	StrategyGuided  Strategy = "category_guided"
	StrategyGeneral Strategy = "general_refinement"
)

func (s Strategy) String() string {
	return string(s)
}

// Selection thresholds.
const (
	lightQualityFloor       = 60
	grammarConfidenceFloor  = 0.7
	categoryConfidenceFloor = 0.4
)

// sampling holds the generation parameters for one strategy.
type sampling struct {
	temperature     float64
	maxOutputTokens int
}

var strategySampling = map[Strategy]sampling{
	StrategyLight:   {temperature: 0.4, maxOutputTokens: 1000},
	StrategyGrammar: {temperature: 0.1, maxOutputTokens: 500},
	StrategyImage:   {temperature: 0.8, maxOutputTokens: 800},
	StrategyGuided:  {temperature: 0.7, maxOutputTokens: 1500},
	StrategyGeneral: {temperature: 0.7, maxOutputTokens: 1500},
}

// Select picks the refinement strategy for a classification. The first rule
// that applies wins.
func Select(result model.ClassificationResult) Strategy {
	switch {
	case result.RefinementNeed == model.RefinementLow && result.QualityScore > lightQualityFloor:
		return StrategyLight
	case result.PrimaryCategory == model.CategoryGrammarSpelling && result.Confidence > grammarConfidenceFloor:
		return StrategyGrammar
	case result.PrimaryCategory == model.CategoryImageGeneration && result.Confidence > categoryConfidenceFloor:
		return StrategyImage
	case isGuidedCategory(result.PrimaryCategory) && result.Confidence > categoryConfidenceFloor:
		return StrategyGuided
	default:
		return StrategyGeneral
	}
}

func isGuidedCategory(id model.CategoryID) bool {
	switch id {
	case model.CategoryCoding, model.CategoryResearchAnalysis, model.CategoryContentCreation:
		return true
	case model.CategoryGrammarSpelling, model.CategoryImageGeneration, model.CategoryGeneral:
		return false
	}
	return false
}
