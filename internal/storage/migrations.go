package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with prompt corpus",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS corpus_prompts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					content TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL,
					title TEXT NOT NULL DEFAULT '',
					tags TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_corpus_prompts_category ON corpus_prompts(category)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Add golden examples for few-shot classification",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS golden_examples (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					prompt TEXT NOT NULL UNIQUE,
					correct_category TEXT NOT NULL,
					confidence REAL,
					source TEXT NOT NULL DEFAULT 'manual',
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_golden_examples_created_at ON golden_examples(created_at)`,
			}
			return execAll(tx, queries)
		},
	},
	{
		Version:     3,
		Description: "Add feedback records from undone refinements",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS feedback (
					id TEXT PRIMARY KEY,
					original_prompt TEXT NOT NULL,
					predicted_category TEXT NOT NULL,
					corrected_category TEXT NOT NULL,
					provenance TEXT NOT NULL,
					reported_confidence REAL NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL,
					promoted_at DATETIME
				)`,
				`CREATE INDEX idx_feedback_promoted_at ON feedback(promoted_at)`,
			}
			return execAll(tx, queries)
		},
	},
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// SchemaVersion returns the current schema version of the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// PendingMigrations returns the migrations not yet applied.
func (s *SQLiteStorage) PendingMigrations(ctx context.Context) ([]Migration, error) {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, m := range migrations {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	pending, err := s.PendingMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range pending {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
