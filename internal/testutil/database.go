// Package testutil provides test utilities for promptsmith.
// It offers isolated SQLite databases seeded from reusable prompt fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/promptsmith/internal/model"
	"github.com/Veraticus/promptsmith/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database with migrations applied.
// The database is closed when the test finishes.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.SeedCorpus(testutil.FixtureCorpus...)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedCorpus adds corpus entries or fails the test.
func (db *TestDB) SeedCorpus(entries ...model.CorpusEntry) *TestDB {
	db.t.Helper()
	if _, err := db.Storage.ImportPrompts(context.Background(), entries, nil); err != nil {
		db.t.Fatalf("failed to seed corpus: %v", err)
	}
	return db
}

// SeedGolden adds golden examples or fails the test.
func (db *TestDB) SeedGolden(examples ...model.GoldenExample) *TestDB {
	db.t.Helper()
	for _, ex := range examples {
		if _, err := db.Storage.SaveGoldenExample(context.Background(), ex); err != nil {
			db.t.Fatalf("failed to seed golden example %q: %v", ex.Prompt, err)
		}
	}
	return db
}
