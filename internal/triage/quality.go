package triage

import (
	"regexp"
	"strings"

	"github.com/Veraticus/promptsmith/internal/model"
)

// qualitySignal is a group of whole-word phrases that shift the quality
// score by delta once per phrase present.
type qualitySignal struct {
	phrases []*regexp.Regexp
	delta   int
}

var (
	clarityWords = []string{
		"please", "could you", "can you", "would you", "help me", "i need",
		"i want", "explain", "describe", "create", "write",
	}
	specificityWords = []string{
		"specific", "exactly", "detailed", "step by step", "example", "including",
		"must", "should",
	}
	contextPhrases = []string{
		"as a", "act as", "imagine", "you are", "pretend", "role", "context",
	}
	formatWords = []string{
		"format", "list", "table", "json", "bullet", "markdown", "outline", "summary",
	}
	casualMistakes = []string{
		"wanna", "gonna", "ur", "u", "2", "pls", "plz", "thx", "dont", "cant",
	}
	vagueWords = []string{
		"thing", "stuff", "maybe", "something", "whatever", "kinda", "sorta", "etc",
	}
)

var qualitySignals = []qualitySignal{
	{phrases: wholeWordPatterns(clarityWords), delta: 1},
	{phrases: wholeWordPatterns(specificityWords), delta: 2},
	{phrases: wholeWordPatterns(contextPhrases), delta: 3},
	{phrases: wholeWordPatterns(formatWords), delta: 2},
	{phrases: wholeWordPatterns(casualMistakes), delta: -1},
	{phrases: wholeWordPatterns(vagueWords), delta: -1},
}

const (
	baseQualityScore = 50
	minQualityScore  = 0
	maxQualityScore  = 100
)

// ScoreQuality rates how well-formed a prompt is on a 0-100 scale.
func ScoreQuality(prompt string) int {
	score := baseQualityScore

	switch n := len(prompt); {
	case n < 10:
		score -= 20
	case n < 30:
		score -= 10
	case n > 200:
		score += 5
	}

	for _, mark := range []struct {
		text  string
		delta int
	}{{"?", 3}, {".", 2}, {",", 1}, {":", 2}} {
		if strings.Contains(prompt, mark.text) {
			score += mark.delta
		}
	}

	for _, signal := range qualitySignals {
		for _, re := range signal.phrases {
			if re.MatchString(prompt) {
				score += signal.delta
			}
		}
	}

	return clampQuality(score)
}

// RefinementNeed derives the refinement need for a prompt from its quality.
func RefinementNeed(prompt string) model.RefinementNeed {
	return model.RefinementNeedFor(ScoreQuality(prompt))
}

func clampQuality(score int) int {
	return max(minQualityScore, min(maxQualityScore, score))
}

func wholeWordPatterns(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, phrase := range phrases {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	}
	return out
}
