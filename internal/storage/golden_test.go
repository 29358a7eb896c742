package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

func ptr(f float64) *float64 { return &f }

func TestSaveGoldenExample(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.SaveGoldenExample(ctx, model.GoldenExample{
		Prompt:          "make a logo for my bakery",
		CorrectCategory: "image_generation",
		CreatedAt:       base,
	})
	require.NoError(t, err)

	_, err = store.SaveGoldenExample(ctx, model.GoldenExample{
		Prompt:          "fix the typos in my cover letter",
		CorrectCategory: "Grammar_Spelling",
		Confidence:      ptr(0.9),
		CreatedAt:       base.Add(time.Hour),
	})
	require.NoError(t, err)

	examples, err := store.ListGoldenExamples(ctx)
	require.NoError(t, err)
	require.Len(t, examples, 2)

	assert.Equal(t, "fix the typos in my cover letter", examples[0].Prompt, "most recent first")
	assert.Equal(t, model.CategoryGrammarSpelling, examples[0].CorrectCategory)
	require.NotNil(t, examples[0].Confidence)
	assert.InDelta(t, 0.9, *examples[0].Confidence, 1e-9)

	assert.Equal(t, first, examples[1].ID)
	assert.Nil(t, examples[1].Confidence)
	assert.True(t, base.Equal(examples[1].CreatedAt))
}

func TestSaveGoldenExample_UpsertsOnPrompt(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id1, err := store.SaveGoldenExample(ctx, model.GoldenExample{
		Prompt:          "write a haiku about rust",
		CorrectCategory: model.CategoryCoding,
	})
	require.NoError(t, err)

	id2, err := store.SaveGoldenExample(ctx, model.GoldenExample{
		Prompt:          "write a haiku about rust",
		CorrectCategory: model.CategoryContentCreation,
	})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	examples, err := store.ListGoldenExamples(ctx)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, model.CategoryContentCreation, examples[0].CorrectCategory)
}

func TestSaveGoldenExample_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		wantErr error
		example model.GoldenExample
		name    string
	}{
		{
			name:    "empty prompt",
			example: model.GoldenExample{Prompt: " ", CorrectCategory: model.CategoryCoding},
			wantErr: ErrEmptyString,
		},
		{
			name:    "unknown category",
			example: model.GoldenExample{Prompt: "hi", CorrectCategory: "chit_chat"},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "confidence out of range",
			example: model.GoldenExample{Prompt: "hi", CorrectCategory: model.CategoryGeneral, Confidence: ptr(1.5)},
			wantErr: ErrInvalidConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveGoldenExample(ctx, tt.example)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteGoldenExample(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.SaveGoldenExample(ctx, model.GoldenExample{
		Prompt:          "compare postgres and sqlite for embedded use",
		CorrectCategory: model.CategoryResearchAnalysis,
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteGoldenExample(ctx, id))

	examples, err := store.ListGoldenExamples(ctx)
	require.NoError(t, err)
	assert.Empty(t, examples)

	err = store.DeleteGoldenExample(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
