package model

import "time"

// ProvenanceUndoCorrection marks feedback captured when a user reverted a refinement.
const ProvenanceUndoCorrection = "undo correction"

// CorpusEntry is a reference prompt used for similarity retrieval.
type CorpusEntry struct {
	ID       int64
	Content  string
	Category string
	Title    string
	Tags     []string
}

// GoldenExample is a confirmed (prompt, category) pair used as a few-shot example.
type GoldenExample struct {
	CreatedAt       time.Time
	Confidence      *float64
	Prompt          string
	CorrectCategory CategoryID
	ID              int64
}

// FeedbackRecord captures a user's correction of a predicted category.
type FeedbackRecord struct {
	Timestamp          time.Time
	ID                 string
	OriginalPrompt     string
	PredictedCategory  CategoryID
	CorrectedCategory  CategoryID
	Provenance         string
	ReportedConfidence float64
}
