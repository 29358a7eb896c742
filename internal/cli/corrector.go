package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/promptsmith/internal/feedback"
	"github.com/Veraticus/promptsmith/internal/model"
)

const maxCorrectionAttempts = 3

// CategoryPrompter asks the user on a terminal which category a reverted
// prompt should have had. It implements feedback.Corrector.
type CategoryPrompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

var _ feedback.Corrector = (*CategoryPrompter)(nil)

// NewCategoryPrompter creates a prompter reading answers from r.
func NewCategoryPrompter(r io.Reader, w io.Writer) *CategoryPrompter {
	return &CategoryPrompter{
		reader: NewNonBlockingReader(r),
		writer: w,
	}
}

// CorrectCategory shows the numbered categories and reads a choice. The
// answer may be a number or a category id. An empty answer or end of input
// declines.
func (p *CategoryPrompter) CorrectCategory(ctx context.Context, session feedback.Session) (model.CategoryID, bool, error) {
	categories := model.AllCategories()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Predicted %s for:\n  %s\n\n",
		BoldStyle.Render(session.Result.PrimaryCategory.DisplayName()),
		SubtleStyle.Render(truncate(session.Original, 200))))
	for i, id := range categories {
		b.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, id.DisplayName()))
	}
	if _, err := fmt.Fprintln(p.writer, RenderBox("Refinement undone", strings.TrimRight(b.String(), "\n"))); err != nil {
		return "", false, fmt.Errorf("failed to write category options: %w", err)
	}

	for range maxCorrectionAttempts {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Correct category (enter to skip)")); err != nil {
			return "", false, fmt.Errorf("failed to write prompt: %w", err)
		}

		answer, err := p.reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if answer == "" {
			return "", false, nil
		}

		if id, ok := parseCategoryChoice(answer, categories); ok {
			return id, true, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError(fmt.Sprintf("%q is not a category", answer))); err != nil {
			return "", false, fmt.Errorf("failed to write error: %w", err)
		}
	}
	return "", false, nil
}

func parseCategoryChoice(answer string, categories []model.CategoryID) (model.CategoryID, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(categories) {
			return categories[n-1], true
		}
		return "", false
	}
	id, err := model.ParseCategoryID(answer)
	return id, err == nil
}
