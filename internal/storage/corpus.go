package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

// AddPrompt inserts a corpus entry and returns its id. A prompt with the same
// content already in the corpus yields common.ErrDuplicateEntry.
func (s *SQLiteStorage) AddPrompt(ctx context.Context, entry model.CorpusEntry) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateCorpusEntry(&entry); err != nil {
		return 0, err
	}
	return s.addPromptTx(ctx, s.db, entry)
}

func (s *SQLiteStorage) addPromptTx(ctx context.Context, q queryable, entry model.CorpusEntry) (int64, error) {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("failed to encode tags: %w", err)
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO corpus_prompts (content, category, title, tags)
		VALUES (?, ?, ?, ?)
	`, entry.Content, entry.Category, entry.Title, string(encoded))
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("%w: corpus prompt %q", common.ErrDuplicateEntry, truncateForError(entry.Content))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add corpus prompt: %w", err)
	}
	return result.LastInsertId()
}

// ImportPrompts adds entries in one transaction, skipping duplicates. progress
// is called after each entry when non-nil. It returns how many were added.
func (s *SQLiteStorage) ImportPrompts(ctx context.Context, entries []model.CorpusEntry, progress func()) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	entries = append([]model.CorpusEntry(nil), entries...)
	for i := range entries {
		if err := validateCorpusEntry(&entries[i]); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	added := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, entry := range entries {
			_, err := s.addPromptTx(ctx, tx, entry)
			switch {
			case err == nil:
				added++
			case errors.Is(err, common.ErrDuplicateEntry):
			default:
				return err
			}
			if progress != nil {
				progress()
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ListPrompts returns the whole corpus in insertion order.
func (s *SQLiteStorage) ListPrompts(ctx context.Context) ([]model.CorpusEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, category, title, tags
		FROM corpus_prompts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []model.CorpusEntry{}
	for rows.Next() {
		var entry model.CorpusEntry
		var tags string
		if err := rows.Scan(&entry.ID, &entry.Content, &entry.Category, &entry.Title, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan corpus prompt: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for corpus prompt %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corpus: %w", err)
	}
	return entries, nil
}

// CountPrompts returns the number of corpus entries per category.
func (s *SQLiteStorage) CountPrompts(ctx context.Context) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM corpus_prompts GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count corpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan corpus count: %w", err)
		}
		counts[category] = n
	}
	return counts, rows.Err()
}

func truncateForError(s string) string {
	const limit = 40
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
