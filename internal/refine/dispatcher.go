// Package refine rewrites classified prompts for a target platform.
package refine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/model"
)

var errEmptyRefinement = errors.New("model returned an empty refinement")

// Request is everything the dispatcher needs to refine one prompt.
type Request struct {
	Prompt       string
	Platform     model.Platform
	TaskCategory model.CategoryID
	Result       model.ClassificationResult
}

// Result is a refined prompt and the strategy that produced it.
type Result struct {
	Text     string
	Strategy Strategy
}

// Dispatcher chooses a strategy and makes exactly one generation call.
type Dispatcher struct {
	generator llm.Generator
	templates *templateBuilder
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher around generator.
func NewDispatcher(generator llm.Generator, logger *slog.Logger) (*Dispatcher, error) {
	if generator == nil {
		return nil, common.ErrMissingCredential
	}
	if logger == nil {
		logger = slog.Default()
	}
	templates, err := newTemplateBuilder()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{generator: generator, templates: templates, logger: logger}, nil
}

// Refine rewrites req.Prompt. Failures of the generation call are returned as
// *common.ServiceError and are never retried.
func (d *Dispatcher) Refine(ctx context.Context, req Request) (Result, error) {
	strategy := Select(req.Result)

	instruction, err := d.Instruction(strategy, req)
	if err != nil {
		return Result{}, err
	}

	params := strategySampling[strategy]
	d.logger.Info("refining prompt",
		"strategy", strategy,
		"platform", req.Platform,
		"category", req.Result.PrimaryCategory,
		"confidence", req.Result.Confidence,
		"quality", req.Result.QualityScore)

	resp, err := d.generator.Generate(ctx, llm.Request{
		SystemInstruction: instruction,
		UserPrompt:        req.Prompt,
		Temperature:       params.temperature,
		MaxOutputTokens:   params.maxOutputTokens,
	})
	if err != nil {
		return Result{}, common.NewServiceError("refine."+strategy.String(), 0, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Result{}, common.NewServiceError("refine."+strategy.String(), 0, errEmptyRefinement)
	}

	d.logger.Debug("prompt refined",
		"strategy", strategy,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return Result{Text: text, Strategy: strategy}, nil
}

// Instruction renders the system instruction a strategy would send.
func (d *Dispatcher) Instruction(strategy Strategy, req Request) (string, error) {
	profile := ProfileFor(req.Platform)

	switch strategy {
	case StrategyLight:
		return d.templates.render("light", struct {
			Profile Profile
			Similar []model.SimilarityMatch
		}{Profile: profile, Similar: req.Result.SimilarPrompts})

	case StrategyGrammar:
		return d.templates.render("grammar", nil)

	case StrategyImage:
		name := "image_conversational"
		if profile.Family == FamilyStructured {
			name = "image_structured"
		}
		return d.templates.render(name, struct {
			Profile     Profile
			SharedImage bool
		}{Profile: profile, SharedImage: req.Result.HasSharedImages})

	case StrategyGuided:
		return d.guided(profile, req.Result.PrimaryCategory, req.Result)

	case StrategyGeneral:
		task := req.TaskCategory
		if task == "" {
			task = model.CategoryGeneral
		}
		return d.guided(profile, task, req.Result)
	}

	return "", fmt.Errorf("unknown refinement strategy %q", strategy)
}

func (d *Dispatcher) guided(profile Profile, category model.CategoryID, result model.ClassificationResult) (string, error) {
	var weights []string
	for _, id := range model.AllCategories() {
		if w := result.Score(id).Weight; w > 0 {
			weights = append(weights, fmt.Sprintf("%s=%d", id, w))
		}
	}

	return d.templates.render("guided", struct {
		Profile      Profile
		CategoryName string
		Guidelines   []string
		Weights      []string
		Result       model.ClassificationResult
	}{
		Profile:      profile,
		CategoryName: category.DisplayName(),
		Guidelines:   Guidelines(category),
		Weights:      weights,
		Result:       result,
	})
}
