package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/promptsmith/internal/model"
	"github.com/Veraticus/promptsmith/internal/refine"
)

const maxBarWidth = 20

// RenderClassification renders a triage report for a classified prompt.
func RenderClassification(result model.ClassificationResult) string {
	var b strings.Builder

	field := func(label, value string) {
		b.WriteString(LabelStyle.Render(label) + value + "\n")
	}

	field("Category", BoldStyle.Render(result.PrimaryCategory.DisplayName()))
	field("Confidence", confidenceStyle(result.Confidence).Render(fmt.Sprintf("%.0f%%", result.Confidence*100)))
	field("Source", string(result.Source))
	field("Quality", fmt.Sprintf("%d/100", result.QualityScore))
	field("Refinement need", string(result.RefinementNeed))
	if result.HasSharedImages {
		field("Shared images", "yes")
	}

	b.WriteString("\n" + SubtitleStyle.UnsetMargins().Render("Weights") + "\n")
	b.WriteString(renderWeights(result))

	if len(result.Reasoning) > 0 {
		b.WriteString("\n" + SubtitleStyle.UnsetMargins().Render("Reasoning") + "\n")
		for _, r := range result.Reasoning {
			b.WriteString("  • " + r + "\n")
		}
	}

	if len(result.KeyIndicators) > 0 {
		b.WriteString("\n")
		field("Key indicators", strings.Join(result.KeyIndicators, ", "))
	}

	if len(result.SimilarPrompts) > 0 {
		b.WriteString("\n" + SubtitleStyle.UnsetMargins().Render("Similar prompts") + "\n")
		for _, m := range result.SimilarPrompts {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				InfoStyle.Render(fmt.Sprintf("%.2f", m.Score)),
				m.Title,
				SubtleStyle.Render("("+m.Category+")")))
		}
	}

	return RenderBox(ChartIcon+" Triage", strings.TrimRight(b.String(), "\n"))
}

func renderWeights(result model.ClassificationResult) string {
	maxWeight := 0
	for _, s := range result.Scores {
		maxWeight = max(maxWeight, s.Weight)
	}

	var b strings.Builder
	for _, id := range model.AllCategories() {
		weight := result.Score(id).Weight
		width := 0
		if maxWeight > 0 {
			width = weight * maxBarWidth / maxWeight
		}
		name := TableCellStyle.Width(22).Render(id.DisplayName())
		if id == result.PrimaryCategory {
			name = BoldStyle.Inherit(TableCellStyle).Width(22).Render(id.DisplayName())
		}
		bar := BarStyle.Render(strings.Repeat("█", width))
		b.WriteString(fmt.Sprintf("  %s%s %d\n", name, bar, weight))
	}
	return b.String()
}

func confidenceStyle(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 0.9:
		return SuccessStyle
	case confidence >= 0.5:
		return WarningStyle
	default:
		return ErrorStyle
	}
}

// RenderRefinement renders a refined prompt with the strategy that produced it
// and the classification it was based on. The footer carries the values
// `smith feedback --predicted --confidence` expects.
func RenderRefinement(result refine.Result, classification model.ClassificationResult) string {
	footer := fmt.Sprintf("strategy: %s  predicted: %s  confidence: %.2f",
		result.Strategy, classification.PrimaryCategory, classification.Confidence)
	return RenderBox(RobotIcon+" Refined prompt", result.Text+"\n\n"+SubtleStyle.Render(footer))
}

// RenderGoldenExamples renders the golden set as a table.
func RenderGoldenExamples(examples []model.GoldenExample) string {
	if len(examples) == 0 {
		return FormatInfo("The golden set is empty")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-6s %-20s %-10s %s", "ID", "CATEGORY", "CONF", "PROMPT")) + "\n")
	for _, ex := range examples {
		conf := "-"
		if ex.Confidence != nil {
			conf = fmt.Sprintf("%.2f", *ex.Confidence)
		}
		b.WriteString(fmt.Sprintf("%-6d %-20s %-10s %s\n", ex.ID, ex.CorrectCategory, conf, truncate(ex.Prompt, 60)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCorpus renders corpus entries as a table.
func RenderCorpus(entries []model.CorpusEntry) string {
	if len(entries) == 0 {
		return FormatInfo("The corpus is empty")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-6s %-20s %-24s %s", "ID", "CATEGORY", "TITLE", "CONTENT")) + "\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%-6d %-20s %-24s %s\n", e.ID, e.Category, truncate(e.Title, 24), truncate(e.Content, 50)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
