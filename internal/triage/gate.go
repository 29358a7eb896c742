package triage

import "github.com/Veraticus/promptsmith/internal/model"

// Default escalation thresholds.
const (
	DefaultConfidenceThreshold = 0.90
	DefaultWeightFloor         = 4
)

// Gate decides whether a fast-path result is trustworthy on its own.
type Gate struct {
	// ConfidenceThreshold is the minimum confidence accepted without escalation.
	ConfidenceThreshold float64
	// WeightFloor is the highest total weight that still escalates.
	WeightFloor int
}

// DefaultGate returns a gate with the default thresholds.
func DefaultGate() Gate {
	return Gate{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		WeightFloor:         DefaultWeightFloor,
	}
}

// ShouldEscalate reports whether result needs the smart path.
func (g Gate) ShouldEscalate(result model.ClassificationResult) bool {
	return result.Confidence < g.ConfidenceThreshold || result.TotalWeight <= g.WeightFloor
}
