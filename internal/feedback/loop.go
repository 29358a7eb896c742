// Package feedback turns reverted refinements into classification corrections.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/promptsmith/internal/model"
)

// Session is the state of one refinement, handed back to the caller so it can
// be checked against the editor later.
type Session struct {
	Original string
	Refined  string
	Result   model.ClassificationResult
}

// Store persists feedback records. It is append-only.
type Store interface {
	AppendFeedback(ctx context.Context, record model.FeedbackRecord) error
}

// Corrector asks the user which category a reverted prompt should have had.
// ok is false when the user declines to answer.
type Corrector interface {
	CorrectCategory(ctx context.Context, session Session) (category model.CategoryID, ok bool, err error)
}

// CorrectorFunc adapts a function to the Corrector interface.
type CorrectorFunc func(ctx context.Context, session Session) (model.CategoryID, bool, error)

// CorrectCategory calls f.
func (f CorrectorFunc) CorrectCategory(ctx context.Context, session Session) (model.CategoryID, bool, error) {
	return f(ctx, session)
}

// Loop records a correction whenever the user undoes a refinement.
type Loop struct {
	store     Store
	corrector Corrector
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewLoop creates a feedback loop.
func NewLoop(store Store, corrector Corrector, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		store:     store,
		corrector: corrector,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// IsUndo reports whether current shows the refinement was reverted: it matches
// the original prompt and not the refined one, ignoring surrounding whitespace.
func IsUndo(session Session, current string) bool {
	current = strings.TrimSpace(current)
	return current == strings.TrimSpace(session.Original) &&
		current != strings.TrimSpace(session.Refined)
}

// Observe checks the editor text against session. On an undo it asks the
// corrector for the right category and stores the correction. The returned
// record is nil when nothing was stored.
func (l *Loop) Observe(ctx context.Context, session Session, current string) (*model.FeedbackRecord, error) {
	if !IsUndo(session, current) {
		return nil, nil
	}
	l.logger.Info("refinement undone",
		"category", session.Result.PrimaryCategory,
		"confidence", session.Result.Confidence)

	if l.corrector == nil {
		return nil, nil
	}
	answer, ok, err := l.corrector.CorrectCategory(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to get corrected category: %w", err)
	}
	if !ok {
		l.logger.Debug("no correction supplied")
		return nil, nil
	}
	corrected, err := model.ParseCategoryID(string(answer))
	if err != nil {
		return nil, fmt.Errorf("invalid correction: %w", err)
	}

	record := model.FeedbackRecord{
		ID:                 l.newID(),
		Timestamp:          l.now().UTC(),
		OriginalPrompt:     session.Original,
		PredictedCategory:  session.Result.PrimaryCategory,
		CorrectedCategory:  corrected,
		Provenance:         model.ProvenanceUndoCorrection,
		ReportedConfidence: session.Result.Confidence,
	}
	if err := l.store.AppendFeedback(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	l.logger.Info("recorded classification correction",
		"id", record.ID,
		"predicted", record.PredictedCategory,
		"corrected", record.CorrectedCategory)
	return &record, nil
}
