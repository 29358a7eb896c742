package triage

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/promptsmith/internal/model"
)

// Corpus supplies the read-only prompt collection used for similarity lookups.
type Corpus interface {
	ListPrompts(ctx context.Context) ([]model.CorpusEntry, error)
}

const (
	// DefaultSimilarityLimit caps the number of similar prompts returned.
	DefaultSimilarityLimit = 3
	// DefaultSimilarityThreshold is the exclusive lower bound for a match.
	DefaultSimilarityThreshold = 0.3
)

var nonWordPattern = regexp.MustCompile(`\W+`)

var stopWords = wordSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can",
	"had", "her", "was", "one", "our", "out", "has", "have", "this", "that",
	"with", "from", "they", "will", "would", "there", "their", "what", "about",
	"which", "when", "make", "like", "into", "than", "them", "been", "some",
	"could", "your", "just", "also", "how",
)

// SimilarityRetriever finds corpus prompts that share vocabulary with a prompt.
type SimilarityRetriever struct {
	corpus    Corpus
	logger    *slog.Logger
	limit     int
	threshold float64
}

// NewSimilarityRetriever creates a retriever over corpus. A nil corpus is
// treated as empty. Non-positive limit or threshold fall back to defaults.
func NewSimilarityRetriever(corpus Corpus, limit int, threshold float64, logger *slog.Logger) *SimilarityRetriever {
	if limit <= 0 {
		limit = DefaultSimilarityLimit
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SimilarityRetriever{
		corpus:    corpus,
		limit:     limit,
		threshold: threshold,
		logger:    logger,
	}
}

// FindSimilar returns up to limit corpus entries whose Jaccard similarity to
// prompt exceeds the threshold, most similar first. It never fails: an
// unreadable corpus yields no matches.
func (r *SimilarityRetriever) FindSimilar(ctx context.Context, prompt string) []model.SimilarityMatch {
	matches := []model.SimilarityMatch{}
	if r == nil || r.corpus == nil {
		return matches
	}

	entries, err := r.corpus.ListPrompts(ctx)
	if err != nil {
		r.logger.Warn("corpus unavailable, skipping similarity lookup", "error", err)
		return matches
	}
	if len(entries) == 0 {
		return matches
	}

	tokens := Tokenize(prompt)
	for _, entry := range entries {
		score := Jaccard(tokens, Tokenize(entry.Content))
		if score <= r.threshold {
			continue
		}
		matches = append(matches, model.SimilarityMatch{
			Content:  entry.Content,
			Category: entry.Category,
			Title:    entry.Title,
			Score:    score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > r.limit {
		matches = matches[:r.limit]
	}
	return matches
}

// Tokenize lowercases text and returns its distinct content words.
func Tokenize(text string) map[string]struct{} {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
