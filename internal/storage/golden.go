package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

// Golden example sources.
const (
	GoldenSourceManual   = "manual"
	GoldenSourceFeedback = "feedback"
)

// SaveGoldenExample adds a golden example, or replaces the category and
// confidence of an existing example with the same prompt. It returns the id.
func (s *SQLiteStorage) SaveGoldenExample(ctx context.Context, example model.GoldenExample) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateGoldenExample(&example); err != nil {
		return 0, err
	}
	return s.saveGoldenExampleTx(ctx, s.db, example, GoldenSourceManual)
}

func (s *SQLiteStorage) saveGoldenExampleTx(ctx context.Context, q queryable, example model.GoldenExample, source string) (int64, error) {
	if example.CreatedAt.IsZero() {
		example.CreatedAt = time.Now()
	}

	var confidence sql.NullFloat64
	if example.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *example.Confidence, Valid: true}
	}

	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO golden_examples (prompt, correct_category, confidence, source, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(prompt) DO UPDATE SET
			correct_category = excluded.correct_category,
			confidence = excluded.confidence,
			source = excluded.source,
			created_at = excluded.created_at
		RETURNING id
	`, example.Prompt, string(example.CorrectCategory), confidence, source, example.CreatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save golden example: %w", err)
	}
	return id, nil
}

// ListGoldenExamples returns the golden set, most recent first.
func (s *SQLiteStorage) ListGoldenExamples(ctx context.Context) ([]model.GoldenExample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prompt, correct_category, confidence, created_at
		FROM golden_examples
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query golden examples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	examples := []model.GoldenExample{}
	for rows.Next() {
		var ex model.GoldenExample
		var category string
		var confidence sql.NullFloat64
		if err := rows.Scan(&ex.ID, &ex.Prompt, &category, &confidence, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan golden example: %w", err)
		}
		ex.CorrectCategory = model.CategoryID(category)
		if confidence.Valid {
			c := confidence.Float64
			ex.Confidence = &c
		}
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating golden examples: %w", err)
	}
	return examples, nil
}

// DeleteGoldenExample removes a golden example by id.
func (s *SQLiteStorage) DeleteGoldenExample(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM golden_examples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete golden example: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: golden example %d", common.ErrNotFound, id)
	}
	return nil
}
