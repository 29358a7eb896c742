package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/model"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t).
		SeedCorpus(FixtureCorpus...).
		SeedGolden(FixtureGolden...)
	ctx := context.Background()

	entries, err := db.Storage.ListPrompts(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, len(FixtureCorpus))

	golden, err := db.Storage.ListGoldenExamples(ctx)
	require.NoError(t, err)
	assert.Len(t, golden, len(FixtureGolden))
}

func TestFixturesCoverEveryCategory(t *testing.T) {
	corpus := make(map[string]bool)
	for _, e := range FixtureCorpus {
		corpus[e.Category] = true
	}
	golden := make(map[model.CategoryID]bool)
	for _, g := range FixtureGolden {
		golden[g.CorrectCategory] = true
	}

	for _, id := range model.AllCategories() {
		assert.True(t, corpus[string(id)], "corpus fixture missing %s", id)
		assert.True(t, golden[id], "golden fixture missing %s", id)
	}
}
