package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/model"
)

// GoldenSet supplies confirmed prompt/category pairs for few-shot prompting,
// most recent first.
type GoldenSet interface {
	ListGoldenExamples(ctx context.Context) ([]model.GoldenExample, error)
}

// Sampling parameters for the smart-path call.
const (
	smartPathTemperature     = 0.2
	smartPathTopK            = 20
	smartPathTopP            = 0.8
	smartPathMaxOutputTokens = 1024

	// DefaultMaxGoldenExamples bounds the few-shot lines in the instruction.
	DefaultMaxGoldenExamples = 10
)

var errNoStructuredOutput = errors.New("no JSON object in response")

// Outcome is the result of a smart-path attempt: either FastPathOutcome or
// SmartPathOutcome.
type Outcome interface {
	outcome()
}

// FastPathOutcome means the smart path could not produce a usable answer and
// the fast-path result stands unmodified.
type FastPathOutcome struct {
	Cause  error
	Result model.ClassificationResult
}

// SmartPathOutcome carries a validated model answer together with the
// fast-path result it refines.
type SmartPathOutcome struct {
	AI   AIClassification
	Fast model.ClassificationResult
}

func (FastPathOutcome) outcome()  {}
func (SmartPathOutcome) outcome() {}

// Resolve turns an outcome into the final classification.
func Resolve(o Outcome) model.ClassificationResult {
	switch v := o.(type) {
	case FastPathOutcome:
		return v.Result
	case SmartPathOutcome:
		return merge(v.Fast, v.AI)
	default:
		panic(fmt.Sprintf("triage: unknown outcome %T", o))
	}
}

// merge overlays the model's answer on the fast-path result. The per-category
// scores, total weight, similar prompts and shared-image flag are kept. The
// merged result shares no maps or slices with fast.
func merge(fast model.ClassificationResult, ai AIClassification) model.ClassificationResult {
	merged := fast
	merged.Scores = cloneScores(fast.Scores)
	merged.SimilarPrompts = slices.Clone(fast.SimilarPrompts)
	merged.Source = model.SourceSmartPath
	merged.PrimaryCategory = model.CategoryID(ai.Category)
	merged.Confidence = clampUnit(ai.ConfidenceScore)

	merged.Reasoning = append([]string{}, ai.ReasoningSteps...)
	if ai.Rationale != "" {
		merged.Reasoning = append(merged.Reasoning, ai.Rationale)
	}
	merged.KeyIndicators = append([]string{}, ai.KeyIndicators...)

	merged.QualityScore = clampQuality(int(math.Round(ai.PromptQualityScore)))
	merged.RefinementNeed = model.RefinementNeedFor(merged.QualityScore)
	if ai.RefinementNeeded && merged.RefinementNeed == model.RefinementLow {
		merged.RefinementNeed = model.RefinementMedium
	}
	return merged
}

func cloneScores(scores map[model.CategoryID]model.CategoryScore) map[model.CategoryID]model.CategoryScore {
	if scores == nil {
		return nil
	}
	out := make(map[model.CategoryID]model.CategoryScore, len(scores))
	for id, s := range scores {
		s.Matches = slices.Clone(s.Matches)
		out[id] = s
	}
	return out
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// SmartPath asks a text-generation model to classify prompts the fast path
// was unsure about.
type SmartPath struct {
	generator   llm.Generator
	golden      GoldenSet
	builder     *promptBuilder
	validator   *schemaValidator
	logger      *slog.Logger
	maxExamples int
}

// NewSmartPath creates a smart-path classifier. golden may be nil.
func NewSmartPath(generator llm.Generator, golden GoldenSet, maxExamples int, logger *slog.Logger) (*SmartPath, error) {
	if generator == nil {
		return nil, errors.New("smart path requires a generator")
	}
	if maxExamples <= 0 {
		maxExamples = DefaultMaxGoldenExamples
	}
	if logger == nil {
		logger = slog.Default()
	}

	builder, err := newPromptBuilder()
	if err != nil {
		return nil, err
	}
	validator, err := newSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &SmartPath{
		generator:   generator,
		golden:      golden,
		builder:     builder,
		validator:   validator,
		logger:      logger,
		maxExamples: maxExamples,
	}, nil
}

// Classify makes one generation call for prompt. Every failure yields a
// FastPathOutcome holding fast unchanged.
func (s *SmartPath) Classify(ctx context.Context, prompt string, fast model.ClassificationResult) Outcome {
	ai, err := s.classify(ctx, prompt, fast)
	if err != nil {
		s.logger.Warn("smart path failed, keeping fast path result",
			"error", err,
			"category", fast.PrimaryCategory,
			"confidence", fast.Confidence)
		return FastPathOutcome{Result: fast, Cause: err}
	}

	s.logger.Info("smart path classified prompt",
		"category", ai.Category,
		"confidence", ai.ConfidenceScore,
		"fast_path_category", fast.PrimaryCategory)
	return SmartPathOutcome{Fast: fast, AI: ai}
}

func (s *SmartPath) classify(ctx context.Context, prompt string, fast model.ClassificationResult) (AIClassification, error) {
	instruction, err := s.builder.BuildInstruction(s.goldenExamples(ctx))
	if err != nil {
		return AIClassification{}, err
	}
	request, err := s.builder.BuildRequest(prompt, fast)
	if err != nil {
		return AIClassification{}, err
	}

	resp, err := s.generator.Generate(ctx, llm.Request{
		SystemInstruction: instruction,
		UserPrompt:        request,
		Temperature:       smartPathTemperature,
		TopK:              smartPathTopK,
		TopP:              smartPathTopP,
		MaxOutputTokens:   smartPathMaxOutputTokens,
		Schema:            classificationSchema(),
		SchemaName:        classificationToolName,
	})
	if err != nil {
		return AIClassification{}, fmt.Errorf("classification call failed: %w", err)
	}

	payload, ok := llm.StructuredPayload(resp)
	if !ok {
		return AIClassification{}, errNoStructuredOutput
	}
	return s.validator.Decode(payload)
}

func (s *SmartPath) goldenExamples(ctx context.Context) []model.GoldenExample {
	if s.golden == nil {
		return nil
	}
	examples, err := s.golden.ListGoldenExamples(ctx)
	if err != nil {
		s.logger.Warn("golden set unavailable, classifying without examples", "error", err)
		return nil
	}
	if len(examples) > s.maxExamples {
		examples = examples[:s.maxExamples]
	}
	return examples
}
