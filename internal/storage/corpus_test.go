package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

func TestAddPrompt(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.AddPrompt(ctx, model.CorpusEntry{
		Title:    "Go refactor",
		Content:  "Refactor this Go function to remove global state",
		Category: " Coding ",
		Tags:     []string{"go", "refactor"},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	entries, err := store.ListPrompts(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "coding", entries[0].Category, "category is normalized")
	assert.Equal(t, []string{"go", "refactor"}, entries[0].Tags)

	_, err = store.AddPrompt(ctx, model.CorpusEntry{
		Content:  "Refactor this Go function to remove global state",
		Category: "coding",
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestAddPrompt_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name  string
		entry model.CorpusEntry
	}{
		{name: "empty content", entry: model.CorpusEntry{Content: "   ", Category: "coding"}},
		{name: "unknown category", entry: model.CorpusEntry{Content: "hello", Category: "poetry"}},
		{name: "missing category", entry: model.CorpusEntry{Content: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.AddPrompt(ctx, tt.entry)
			assert.ErrorIs(t, err, ErrInvalidCorpusEntry)
		})
	}
}

func TestImportPrompts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.AddPrompt(ctx, model.CorpusEntry{Content: "already here", Category: "general"})
	require.NoError(t, err)

	entries := []model.CorpusEntry{
		{Content: "already here", Category: "general"},
		{Content: "draw a castle at dusk", Category: "IMAGE_GENERATION"},
		{Content: "summarize this paper", Category: "research_analysis"},
	}

	progressCalls := 0
	added, err := store.ImportPrompts(ctx, entries, func() { progressCalls++ })
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, len(entries), progressCalls)
	assert.Equal(t, "IMAGE_GENERATION", entries[1].Category, "input slice is not modified")

	counts, err := store.CountPrompts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"general":           1,
		"image_generation":  1,
		"research_analysis": 1,
	}, counts)
}

func TestImportPrompts_InvalidEntryAddsNothing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.ImportPrompts(ctx, []model.CorpusEntry{
		{Content: "fine", Category: "coding"},
		{Content: "broken", Category: "nope"},
	}, nil)
	require.ErrorIs(t, err, ErrInvalidCorpusEntry)
	assert.Contains(t, err.Error(), "entry 1")

	entries, err := store.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListPrompts_EmptyCorpus(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	entries, err := store.ListPrompts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestTruncateForError(t *testing.T) {
	assert.Equal(t, "short", truncateForError("short"))

	long := strings.Repeat("é", 50)
	got := truncateForError(long)
	assert.Equal(t, strings.Repeat("é", 40)+"...", got)
}
