package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/promptsmith/internal/cli"
	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/feedback"
	"github.com/Veraticus/promptsmith/internal/model"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record a correction for an undone refinement",
		Long: `Compare the editor text after a refinement with the original and refined
prompts. When the refinement was undone, ask for the category the prompt
should have had and store the correction.

Examples:
  smith feedback --original "draw a bug" --refined "..." --current "draw a bug"
  smith feedback --original "draw a bug" --refined "..." --current "draw a bug" --category coding
  smith feedback --original "draw a bug" --refined "..." --current "draw a bug" --predicted image_generation --confidence 0.5

Pass --predicted and --confidence as printed by refine so the stored correction
carries what was reported then. Without them the original prompt is classified again.`,
		RunE: runFeedback,
	}

	cmd.Flags().String("original", "", "Prompt before refinement")
	cmd.Flags().String("refined", "", "Prompt returned by refinement")
	cmd.Flags().String("current", "", "Editor text now")
	cmd.Flags().String("category", "", "Correct category (asks interactively when omitted)")
	cmd.Flags().String("predicted", "", "Category reported at refinement time")
	cmd.Flags().Float64("confidence", 0, "Confidence reported at refinement time")
	cmd.MarkFlagsRequiredTogether("predicted", "confidence")
	_ = cmd.MarkFlagRequired("original")
	_ = cmd.MarkFlagRequired("refined")
	_ = cmd.MarkFlagRequired("current")

	return cmd
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	original, _ := cmd.Flags().GetString("original")
	refined, _ := cmd.Flags().GetString("refined")
	current, _ := cmd.Flags().GetString("current")
	category, _ := cmd.Flags().GetString("category")

	var corrector feedback.Corrector = cli.NewCategoryPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if category != "" {
		id, err := model.ParseCategoryID(category)
		if err != nil {
			return err
		}
		corrector = feedback.CorrectorFunc(func(context.Context, feedback.Session) (model.CategoryID, bool, error) {
			return id, true, nil
		})
	}

	a, err := newApp(ctx, corrector)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	reported, ok, err := reportedResult(cmd)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("No --predicted given, classifying the original prompt again"))
		reported = a.engine.Classify(ctx, original)
	}

	session := feedback.Session{
		Original: original,
		Refined:  refined,
		Result:   reported,
	}

	if !feedback.IsUndo(session, current) {
		_, err := fmt.Fprintln(out, cli.FormatInfo("Refinement kept, nothing to record"))
		return err
	}

	record, err := a.engine.Observe(ctx, session, current)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	if record == nil {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No correction recorded"))
		return err
	}

	slog.Debug("Feedback recorded", "id", record.ID)
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s → %s",
		record.PredictedCategory, record.CorrectedCategory)))
	return err
}

// reportedResult rebuilds the classification shown at refinement time from
// the --predicted and --confidence flags. ok is false when they are absent.
func reportedResult(cmd *cobra.Command) (model.ClassificationResult, bool, error) {
	if !cmd.Flags().Changed("predicted") {
		return model.ClassificationResult{}, false, nil
	}
	predicted, _ := cmd.Flags().GetString("predicted")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	id, err := model.ParseCategoryID(predicted)
	if err != nil {
		return model.ClassificationResult{}, false, common.NewUserError(fmt.Sprintf("unknown category %q", predicted), err)
	}
	if confidence < 0 || confidence > 1 {
		return model.ClassificationResult{}, false, common.NewUserError(
			fmt.Sprintf("confidence must be between 0 and 1, got %v", confidence), common.ErrInvalidConfig)
	}
	return model.ClassificationResult{PrimaryCategory: id, Confidence: confidence}, true, nil
}
