package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

type stubCorpus struct {
	err     error
	entries []model.CorpusEntry
	calls   int
}

func (s *stubCorpus) ListPrompts(_ context.Context) ([]model.CorpusEntry, error) {
	s.calls++
	return s.entries, s.err
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("How do I make THE best sourdough-bread at home? It's easy!")

	assert.Contains(t, tokens, "sourdough")
	assert.Contains(t, tokens, "bread")
	assert.Contains(t, tokens, "best")
	assert.Contains(t, tokens, "home")
	assert.Contains(t, tokens, "easy")
	assert.NotContains(t, tokens, "the", "stop word")
	assert.NotContains(t, tokens, "make", "stop word")
	assert.NotContains(t, tokens, "do", "too short")
	assert.NotContains(t, tokens, "it", "too short")
}

func TestJaccard(t *testing.T) {
	prompt := Tokenize("write a python script that renames photos by date")

	assert.InDelta(t, 1.0, Jaccard(prompt, prompt), 1e-9)
	assert.InDelta(t, 0.0, Jaccard(Tokenize(""), Tokenize("")), 1e-9)
	assert.InDelta(t, 0.0, Jaccard(prompt, Tokenize("")), 1e-9)

	a := Tokenize("python script rename photos")
	b := Tokenize("python script resize photos")
	// {python, script, photos} shared out of {python, script, rename, resize, photos}
	assert.InDelta(t, 0.6, Jaccard(a, b), 1e-9)
}

func TestSimilarityRetriever_FindSimilar(t *testing.T) {
	corpus := &stubCorpus{entries: []model.CorpusEntry{
		{Content: "python script rename photos", Category: "coding", Title: "renamer"},
		{Content: "python script resize photos", Category: "coding"},
		{Content: "python script rename photos quickly", Category: "coding"},
		{Content: "bake sourdough bread", Category: "general"},
		{Content: "python script rename photos by date", Category: "coding"},
	}}
	retriever := NewSimilarityRetriever(corpus, 3, 0.3, common.DiscardLogger())

	matches := retriever.FindSimilar(context.Background(), "python script rename photos")

	require.Len(t, matches, 3)
	assert.Equal(t, "python script rename photos", matches[0].Content)
	assert.Equal(t, "renamer", matches[0].Title)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}
	for _, m := range matches {
		assert.NotEqual(t, "bake sourdough bread", m.Content)
	}
}

func TestSimilarityRetriever_ThresholdIsExclusive(t *testing.T) {
	// 3 shared tokens out of 10 is exactly 0.3 and must be excluded.
	corpus := &stubCorpus{entries: []model.CorpusEntry{
		{Content: "alpha beta gamma delta epsilon zeta theta iota kappa lambda"},
		{Content: "alpha beta gamma delta"},
	}}
	retriever := NewSimilarityRetriever(corpus, 0, 0, common.DiscardLogger())

	matches := retriever.FindSimilar(context.Background(), "alpha beta gamma")
	require.Len(t, matches, 1)
	assert.Equal(t, "alpha beta gamma delta", matches[0].Content)
	assert.InDelta(t, 0.75, matches[0].Score, 1e-9)
}

func TestSimilarityRetriever_EmptySources(t *testing.T) {
	ctx := context.Background()

	t.Run("nil corpus", func(t *testing.T) {
		r := NewSimilarityRetriever(nil, 3, 0.3, common.DiscardLogger())
		matches := r.FindSimilar(ctx, "anything at all")
		assert.NotNil(t, matches)
		assert.Empty(t, matches)
	})

	t.Run("empty corpus", func(t *testing.T) {
		r := NewSimilarityRetriever(&stubCorpus{}, 3, 0.3, common.DiscardLogger())
		assert.Empty(t, r.FindSimilar(ctx, "anything at all"))
	})

	t.Run("corpus error", func(t *testing.T) {
		r := NewSimilarityRetriever(&stubCorpus{err: errors.New("disk gone")}, 3, 0.3, common.DiscardLogger())
		assert.Empty(t, r.FindSimilar(ctx, "anything at all"))
	})

	t.Run("nil retriever", func(t *testing.T) {
		var r *SimilarityRetriever
		assert.Empty(t, r.FindSimilar(ctx, "anything at all"))
	})
}
