package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

// AppendFeedback stores a feedback record. Records are never updated except
// to mark them promoted.
func (s *SQLiteStorage) AppendFeedback(ctx context.Context, record model.FeedbackRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFeedback(record); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (
			id, original_prompt, predicted_category, corrected_category,
			provenance, reported_confidence, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.OriginalPrompt,
		string(record.PredictedCategory),
		string(record.CorrectedCategory),
		record.Provenance,
		record.ReportedConfidence,
		record.Timestamp.UTC(),
	)
	if isUniqueViolation(err) || isPrimaryKeyViolation(err) {
		return fmt.Errorf("%w: feedback %s", common.ErrDuplicateEntry, record.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to append feedback: %w", err)
	}
	return nil
}

// ListFeedback returns every feedback record, oldest first.
func (s *SQLiteStorage) ListFeedback(ctx context.Context) ([]model.FeedbackRecord, error) {
	return s.listFeedback(ctx, false)
}

// ListUnpromotedFeedback returns feedback not yet copied into the golden set,
// oldest first.
func (s *SQLiteStorage) ListUnpromotedFeedback(ctx context.Context) ([]model.FeedbackRecord, error) {
	return s.listFeedback(ctx, true)
}

func (s *SQLiteStorage) listFeedback(ctx context.Context, unpromotedOnly bool) ([]model.FeedbackRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, original_prompt, predicted_category, corrected_category,
			provenance, reported_confidence, created_at
		FROM feedback`
	if unpromotedOnly {
		query += ` WHERE promoted_at IS NULL`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.FeedbackRecord{}
	for rows.Next() {
		var r model.FeedbackRecord
		var predicted, corrected string
		if err := rows.Scan(&r.ID, &r.OriginalPrompt, &predicted, &corrected,
			&r.Provenance, &r.ReportedConfidence, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		r.PredictedCategory = model.CategoryID(predicted)
		r.CorrectedCategory = model.CategoryID(corrected)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}
	return records, nil
}

// PromoteFeedback copies a feedback record into the golden set and marks it
// promoted, in one transaction. The record's reported confidence becomes the
// example's confidence.
func (s *SQLiteStorage) PromoteFeedback(ctx context.Context, record model.FeedbackRecord) (model.GoldenExample, error) {
	if err := validateContext(ctx); err != nil {
		return model.GoldenExample{}, err
	}

	confidence := record.ReportedConfidence
	example := model.GoldenExample{
		Prompt:          record.OriginalPrompt,
		CorrectCategory: record.CorrectedCategory,
		Confidence:      &confidence,
		CreatedAt:       record.Timestamp,
	}
	if err := validateGoldenExample(&example); err != nil {
		return model.GoldenExample{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE feedback SET promoted_at = ? WHERE id = ? AND promoted_at IS NULL
		`, time.Now().UTC(), record.ID)
		if err != nil {
			return fmt.Errorf("failed to mark feedback promoted: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check promoted rows: %w", err)
		} else if n == 0 {
			return fmt.Errorf("%w: unpromoted feedback %s", common.ErrNotFound, record.ID)
		}

		id, err := s.saveGoldenExampleTx(ctx, tx, example, GoldenSourceFeedback)
		if err != nil {
			return err
		}
		example.ID = id
		return nil
	})
	if err != nil {
		return model.GoldenExample{}, err
	}
	return example, nil
}
