package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

func TestPromote(t *testing.T) {
	store := &memoryStore{records: []model.FeedbackRecord{
		{ID: "a", OriginalPrompt: "heyy devi", CorrectedCategory: model.CategoryGrammarSpelling, ReportedConfidence: 0.5},
		{ID: "b", OriginalPrompt: "draw a cat", CorrectedCategory: model.CategoryImageGeneration, ReportedConfidence: 0.7},
	}}

	promoted, err := Promote(context.Background(), store, common.DiscardLogger())
	require.NoError(t, err)
	require.Len(t, promoted, 2)
	assert.Equal(t, "heyy devi", promoted[0].Prompt)
	assert.Equal(t, model.CategoryImageGeneration, promoted[1].CorrectCategory)
	require.NotNil(t, promoted[1].Confidence)
	assert.InDelta(t, 0.7, *promoted[1].Confidence, 1e-9)

	again, err := Promote(context.Background(), store, common.DiscardLogger())
	require.NoError(t, err)
	assert.Empty(t, again, "records are promoted once")
}

func TestPromote_ListFailure(t *testing.T) {
	_, err := Promote(context.Background(), &memoryStore{err: errors.New("no such table")}, common.DiscardLogger())
	assert.ErrorContains(t, err, "no such table")
}
