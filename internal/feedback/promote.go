package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/promptsmith/internal/model"
)

// PromotionStore moves stored corrections into the golden set.
type PromotionStore interface {
	ListUnpromotedFeedback(ctx context.Context) ([]model.FeedbackRecord, error)
	PromoteFeedback(ctx context.Context, record model.FeedbackRecord) (model.GoldenExample, error)
}

// Promote copies every unpromoted correction into the golden set so it is used
// as a few-shot example. It stops at the first failure and returns the
// examples promoted so far.
func Promote(ctx context.Context, store PromotionStore, logger *slog.Logger) ([]model.GoldenExample, error) {
	if logger == nil {
		logger = slog.Default()
	}

	records, err := store.ListUnpromotedFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	promoted := make([]model.GoldenExample, 0, len(records))
	for _, record := range records {
		example, err := store.PromoteFeedback(ctx, record)
		if err != nil {
			return promoted, fmt.Errorf("failed to promote feedback %s: %w", record.ID, err)
		}
		promoted = append(promoted, example)
		logger.Debug("promoted feedback to golden set",
			"id", record.ID,
			"category", example.CorrectCategory)
	}

	logger.Info("golden set updated", "promoted", len(promoted))
	return promoted, nil
}
