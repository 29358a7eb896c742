package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/promptsmith/internal/cli"
	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

func refineCmd() *cobra.Command {
	platforms := make([]string, 0, len(model.Platforms()))
	for _, p := range model.Platforms() {
		platforms = append(platforms, p.String())
	}

	cmd := &cobra.Command{
		Use:   "refine <prompt>",
		Short: "Rewrite a prompt for a target platform",
		Long: fmt.Sprintf(`Classify a prompt and rewrite it for the platform it will be sent to.

Supported platforms: %s

Examples:
  smith refine "make me a calculator app" --platform claude
  smith refine "a cat in space" --platform midjourney
  smith refine "tell me about rome" --task research_analysis --raw`, strings.Join(platforms, ", ")),
		Args: cobra.MinimumNArgs(1),
		RunE: runRefine,
	}

	cmd.Flags().StringP("platform", "p", string(model.PlatformChatGPT), "Target platform")
	cmd.Flags().StringP("task", "t", "", "Category to aim general refinement at")
	cmd.Flags().Bool("raw", false, "Print only the refined prompt")

	return cmd
}

func runRefine(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	platform, _ := cmd.Flags().GetString("platform")
	task, _ := cmd.Flags().GetString("task")
	raw, _ := cmd.Flags().GetBool("raw")

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	if warning := taskCategoryWarning(task); warning != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}

	session, result, err := a.engine.Refine(ctx, strings.Join(args, " "), platform, task)
	switch {
	case errors.Is(err, common.ErrMissingCredential):
		return missingCredentialError(a.cfg, err)
	case errors.Is(err, common.ErrUnsupportedPlatform):
		return common.NewUserError(fmt.Sprintf("unsupported platform %q", platform), err)
	case err != nil:
		return fmt.Errorf("refinement failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if raw {
		_, err = fmt.Fprintln(out, result.Text)
		return err
	}
	_, err = fmt.Fprintln(out, cli.RenderRefinement(result, session.Result))
	return err
}

// taskCategoryWarning returns a warning line when task is set but names no
// known category. Refinement then aims at the general category.
func taskCategoryWarning(task string) string {
	if task == "" {
		return ""
	}
	if _, err := model.ParseCategoryID(task); err == nil {
		return ""
	}
	return cli.FormatWarning(fmt.Sprintf("unknown task category %q, refining as %s", task, model.CategoryGeneral))
}
