package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/promptsmith/internal/cli"
	"github.com/Veraticus/promptsmith/internal/config"
	"github.com/Veraticus/promptsmith/internal/storage"
)

func corpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the reference prompt corpus",
		Long: `The corpus holds reference prompts that similar prompts are matched against.
Golden examples guide the language model when a prompt is escalated.`,
	}

	cmd.AddCommand(corpusImportCmd())
	cmd.AddCommand(corpusListCmd())

	return cmd
}

func corpusImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import prompts and golden examples from a seed file",
		Long: `Import a YAML seed file:

  prompts:
    - title: Go refactor
      content: Refactor this Go function to remove the global state
      category: coding
      tags: [go]
  golden:
    - prompt: heyy can u fix my spelling
      category: grammar_spelling

Prompts already in the corpus are skipped. Golden examples replace any
existing example with the same prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: runCorpusImport,
	}
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	seed, err := storage.LoadSeedFile(config.ExpandPath(args[0]))
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	out := cmd.OutOrStdout()
	entries := seed.CorpusEntries()
	examples := seed.GoldenExamples()

	bar := progressbar.NewOptions(len(entries)+len(examples),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Importing prompts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]=[reset]",
			SaucerHead:    "[cyan]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)

	added, err := store.ImportPrompts(ctx, entries, func() { _ = bar.Add(1) })
	if err != nil {
		return fmt.Errorf("failed to import prompts: %w", err)
	}

	bar.Describe("[cyan]Importing golden examples...[reset]")
	for _, ex := range examples {
		if _, err := store.SaveGoldenExample(ctx, ex); err != nil {
			return fmt.Errorf("failed to import golden example: %w", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	slog.Info("Corpus imported",
		"file", args[0],
		"prompts_added", added,
		"prompts_skipped", len(entries)-added,
		"golden_examples", len(examples))

	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf(
		"Imported %d prompts (%d already present) and %d golden examples",
		added, len(entries)-added, len(examples))))
	return err
}

func corpusListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List corpus prompts",
		Args:  cobra.NoArgs,
		RunE:  runCorpusList,
	}
	cmd.Flags().Bool("counts", false, "Show only the number of prompts per category")
	return cmd
}

func runCorpusList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	countsOnly, _ := cmd.Flags().GetBool("counts")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if countsOnly {
		counts, err := store.CountPrompts(ctx)
		if err != nil {
			return err
		}
		categories := make([]string, 0, len(counts))
		for c := range counts {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			if _, err := fmt.Fprintf(out, "%-20s %d\n", c, counts[c]); err != nil {
				return err
			}
		}
		return nil
	}

	entries, err := store.ListPrompts(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.RenderCorpus(entries))
	return err
}
