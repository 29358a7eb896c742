// Package triage classifies prompts by intent, using a keyword heuristic first
// and a text-generation model only when the heuristic is unsure.
package triage

import (
	"context"
	"log/slog"

	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/model"
)

// Config holds the tunable thresholds of the classifier.
type Config struct {
	ConfidenceThreshold float64
	SimilarityThreshold float64
	WeightFloor         int
	SimilarityLimit     int
	MaxGoldenExamples   int
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		WeightFloor:         DefaultWeightFloor,
		SimilarityLimit:     DefaultSimilarityLimit,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxGoldenExamples:   DefaultMaxGoldenExamples,
	}
}

// Classifier runs the fast path and escalates uncertain results.
type Classifier struct {
	fast   *FastPath
	smart  *SmartPath
	logger *slog.Logger
	gate   Gate
}

// NewClassifier wires a classifier. corpus and golden may be nil. A nil
// generator disables escalation and every result comes from the fast path.
func NewClassifier(cfg Config, corpus Corpus, golden GoldenSet, generator llm.Generator, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	similar := NewSimilarityRetriever(corpus, cfg.SimilarityLimit, cfg.SimilarityThreshold, logger)
	c := &Classifier{
		fast:   NewFastPath(similar, logger),
		gate:   Gate{ConfidenceThreshold: cfg.ConfidenceThreshold, WeightFloor: cfg.WeightFloor},
		logger: logger,
	}

	if generator != nil {
		smart, err := NewSmartPath(generator, golden, cfg.MaxGoldenExamples, logger)
		if err != nil {
			return nil, err
		}
		c.smart = smart
	}
	return c, nil
}

// Classify never fails; the worst case is a general result with zero confidence.
func (c *Classifier) Classify(ctx context.Context, prompt string) model.ClassificationResult {
	fast := c.fast.Classify(ctx, prompt)
	if !c.gate.ShouldEscalate(fast) {
		return fast
	}
	if c.smart == nil {
		c.logger.Debug("low confidence but no generator configured",
			"category", fast.PrimaryCategory,
			"confidence", fast.Confidence)
		return fast
	}

	c.logger.Info("escalating to smart path",
		"category", fast.PrimaryCategory,
		"confidence", fast.Confidence,
		"total_weight", fast.TotalWeight)
	return Resolve(c.smart.Classify(ctx, prompt, fast))
}
