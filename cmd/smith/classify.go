package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/promptsmith/internal/cli"
	"github.com/Veraticus/promptsmith/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <prompt>",
		Short: "Triage a prompt",
		Long: `Classify a prompt into one of six intent categories and score its quality.

Examples:
  smith classify "fix the spelling in this email"
  smith classify --json "draw a fox in the snow"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.engine.Classify(ctx, strings.Join(args, " "))

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newClassificationReport(result))
	}
	_, err = fmt.Fprintln(out, cli.RenderClassification(result))
	return err
}

type categoryReport struct {
	Matches []string `json:"matches"`
	Weight  int      `json:"weight"`
}

type similarReport struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// classificationReport is the JSON shape of a classification result.
type classificationReport struct {
	Scores          map[string]categoryReport `json:"scores"`
	PrimaryCategory string                    `json:"primary_category"`
	Source          string                    `json:"source"`
	RefinementNeed  string                    `json:"refinement_need"`
	Reasoning       []string                  `json:"reasoning"`
	KeyIndicators   []string                  `json:"key_indicators"`
	SimilarPrompts  []similarReport           `json:"similar_prompts"`
	Confidence      float64                   `json:"confidence"`
	TotalWeight     int                       `json:"total_weight"`
	QualityScore    int                       `json:"quality_score"`
	HasSharedImages bool                      `json:"has_shared_images"`
}

func newClassificationReport(r model.ClassificationResult) classificationReport {
	report := classificationReport{
		Scores:          make(map[string]categoryReport, len(r.Scores)),
		PrimaryCategory: string(r.PrimaryCategory),
		Source:          string(r.Source),
		RefinementNeed:  string(r.RefinementNeed),
		Reasoning:       r.Reasoning,
		KeyIndicators:   r.KeyIndicators,
		SimilarPrompts:  make([]similarReport, 0, len(r.SimilarPrompts)),
		Confidence:      r.Confidence,
		TotalWeight:     r.TotalWeight,
		QualityScore:    r.QualityScore,
		HasSharedImages: r.HasSharedImages,
	}
	for id, s := range r.Scores {
		report.Scores[string(id)] = categoryReport{Matches: s.Matches, Weight: s.Weight}
	}
	for _, m := range r.SimilarPrompts {
		report.SimilarPrompts = append(report.SimilarPrompts, similarReport{
			Title:    m.Title,
			Category: m.Category,
			Content:  m.Content,
			Score:    m.Score,
		})
	}
	return report
}
