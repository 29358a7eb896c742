// Package storage provides the data persistence layer for promptsmith.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/promptsmith/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 1")
	ErrInvalidFeedback    = errors.New("invalid feedback record")
	ErrInvalidCorpusEntry = errors.New("invalid corpus entry")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategory normalizes and checks a category id.
func validateCategory(raw string) (model.CategoryID, error) {
	id, err := model.ParseCategoryID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCategory, err)
	}
	return id, nil
}

func validateConfidence(c float64) error {
	if c < 0 || c > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, c)
	}
	return nil
}

// validateCorpusEntry validates a corpus entry and normalizes its category.
func validateCorpusEntry(entry *model.CorpusEntry) error {
	if strings.TrimSpace(entry.Content) == "" {
		return fmt.Errorf("%w: missing content", ErrInvalidCorpusEntry)
	}
	id, err := validateCategory(entry.Category)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorpusEntry, err)
	}
	entry.Category = id.String()
	return nil
}

// validateGoldenExample validates a golden example and normalizes its category.
func validateGoldenExample(ex *model.GoldenExample) error {
	if err := validateString(ex.Prompt, "prompt"); err != nil {
		return err
	}
	id, err := validateCategory(string(ex.CorrectCategory))
	if err != nil {
		return err
	}
	ex.CorrectCategory = id
	if ex.Confidence != nil {
		return validateConfidence(*ex.Confidence)
	}
	return nil
}

// validateFeedback validates a feedback record.
func validateFeedback(record model.FeedbackRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidFeedback)
	}
	if strings.TrimSpace(record.OriginalPrompt) == "" {
		return fmt.Errorf("%w: missing original prompt", ErrInvalidFeedback)
	}
	if !record.PredictedCategory.Valid() || !record.CorrectedCategory.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidFeedback, ErrInvalidCategory)
	}
	if record.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidFeedback)
	}
	return validateConfidence(record.ReportedConfidence)
}
