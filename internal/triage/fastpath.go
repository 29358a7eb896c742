package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/promptsmith/internal/model"
)

// FastPath is the deterministic keyword and pattern classifier. It makes no
// network calls and never fails.
type FastPath struct {
	similar *SimilarityRetriever
	logger  *slog.Logger
}

// NewFastPath creates a fast-path classifier. similar may be nil, in which
// case no similar prompts are reported.
func NewFastPath(similar *SimilarityRetriever, logger *slog.Logger) *FastPath {
	if logger == nil {
		logger = slog.Default()
	}
	return &FastPath{similar: similar, logger: logger}
}

// Classify scores prompt against every category and picks the strongest.
func (f *FastPath) Classify(ctx context.Context, prompt string) model.ClassificationResult {
	lower := strings.ToLower(prompt)

	scores := make(map[model.CategoryID]model.CategoryScore, len(categoryRules))
	for _, rule := range categoryRules {
		scores[rule.id] = scoreCategory(rule, prompt, lower)
	}
	resolveCodingImageConflict(scores, prompt)

	primary := pickPrimary(scores)
	total := 0
	for _, s := range scores {
		total += s.Weight
	}

	confidence := 0.0
	if total > 0 {
		confidence = float64(scores[primary].Weight) / float64(total)
	}

	quality := ScoreQuality(prompt)
	result := model.ClassificationResult{
		Scores:          scores,
		PrimaryCategory: primary,
		Source:          model.SourceFastPath,
		Confidence:      confidence,
		TotalWeight:     total,
		Reasoning:       append([]string{}, scores[primary].Matches...),
		KeyIndicators:   []string{},
		QualityScore:    quality,
		RefinementNeed:  model.RefinementNeedFor(quality),
		SimilarPrompts:  f.similar.FindSimilar(ctx, prompt),
		HasSharedImages: hasSharedImages(lower),
	}

	f.logger.Debug("fast path classified prompt",
		"category", result.PrimaryCategory,
		"confidence", result.Confidence,
		"total_weight", result.TotalWeight,
		"quality", result.QualityScore)

	return result
}

func scoreCategory(rule categoryRule, prompt, lower string) model.CategoryScore {
	score := model.CategoryScore{Name: rule.id.DisplayName(), Matches: []string{}}

	for _, kw := range rule.keywords {
		if strings.Contains(lower, kw) {
			score.Weight += keywordWeight
			score.Matches = append(score.Matches, fmt.Sprintf("keyword: %s", kw))
		}
	}
	for i, re := range rule.compiled {
		if re.MatchString(prompt) {
			score.Weight += patternWeight
			score.Matches = append(score.Matches, fmt.Sprintf("pattern: %s", rule.patterns[i]))
		}
	}

	switch rule.id {
	case model.CategoryGrammarSpelling:
		if note, ok := casualMessageBonus(prompt, lower); ok {
			score.Weight += grammarCasualBonus
			score.Matches = append(score.Matches, note)
		}
	case model.CategoryImageGeneration:
		if hits := visualTermPattern.FindAllString(prompt, -1); len(hits) > 0 {
			score.Weight += visualTermBonus * len(hits)
			score.Matches = append(score.Matches,
				fmt.Sprintf("visual terms: %s", strings.ToLower(strings.Join(hits, ", "))))
		}
	case model.CategoryCoding, model.CategoryResearchAnalysis,
		model.CategoryContentCreation, model.CategoryGeneral:
	}

	return score
}

// casualMessageBonus reports whether prompt reads like a casual message to
// be cleaned up rather than a task for the model.
func casualMessageBonus(prompt, lower string) (string, bool) {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})

	hasCasual, hasGreeting, hasSerious := false, false, false
	for _, w := range words {
		if _, ok := casualTokens[w]; ok {
			hasCasual = true
		}
		if _, ok := greetingWords[w]; ok {
			hasGreeting = true
		}
		if _, ok := seriousWords[w]; ok {
			hasSerious = true
		}
	}

	if hasCasual && alphaRunPattern.MatchString(prompt) {
		return "casual message: informal contractions or misspellings", true
	}
	if len(prompt) < grammarShortPromptLen && hasGreeting && !hasSerious {
		return "casual message: short greeting or note", true
	}
	return "", false
}

// resolveCodingImageConflict favors coding when a prompt that mentions
// styling is really asking for software.
func resolveCodingImageConflict(scores map[model.CategoryID]model.CategoryScore, prompt string) {
	coding := scores[model.CategoryCoding]
	image := scores[model.CategoryImageGeneration]
	if coding.Weight == 0 || image.Weight == 0 {
		return
	}

	for _, re := range primarilyCodingPatterns {
		if !re.MatchString(prompt) {
			continue
		}
		coding.Weight += conflictCodingBoost
		coding.Matches = append(coding.Matches, "conflict resolution: primarily a coding request")
		image.Weight = max(0, image.Weight-conflictImagePenalty)
		scores[model.CategoryCoding] = coding
		scores[model.CategoryImageGeneration] = image
		return
	}
}

// pickPrimary walks categories in enumeration order and keeps the first one
// to reach a strictly greater weight. With no weight at all it is general.
func pickPrimary(scores map[model.CategoryID]model.CategoryScore) model.CategoryID {
	primary := model.CategoryGeneral
	best := 0
	for _, id := range model.AllCategories() {
		if w := scores[id].Weight; w > best {
			best = w
			primary = id
		}
	}
	return primary
}

func hasSharedImages(lower string) bool {
	for _, phrase := range sharedImagePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
