package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/promptsmith/internal/cli"
	"github.com/Veraticus/promptsmith/internal/config"
	"github.com/Veraticus/promptsmith/internal/feedback"
)

func goldenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Manage the golden example set",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List golden examples, most recent first",
		Args:  cobra.NoArgs,
		RunE:  runGoldenList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "promote",
		Short: "Copy recorded corrections into the golden set",
		Args:  cobra.NoArgs,
		RunE:  runGoldenPromote,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a golden example",
		Args:  cobra.ExactArgs(1),
		RunE:  runGoldenDelete,
	})

	return cmd
}

func runGoldenList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	examples, err := store.ListGoldenExamples(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderGoldenExamples(examples))
	return err
}

func runGoldenPromote(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	promoted, err := feedback.Promote(ctx, store, slog.Default())
	if err != nil {
		return fmt.Errorf("promoted %d corrections before failing: %w", len(promoted), err)
	}

	out := cmd.OutOrStdout()
	if len(promoted) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatInfo("No corrections waiting to be promoted"))
		return err
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Promoted %d corrections", len(promoted))))
	return err
}

func runGoldenDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteGoldenExample(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted golden example %d", id)))
	return err
}
