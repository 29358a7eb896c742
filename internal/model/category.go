package model

import (
	"fmt"
	"strings"
)

// CategoryID identifies one of the fixed prompt intent categories.
type CategoryID string

// Category identifiers in enumeration order. The order matters: the fast path
// iterates categories in this order and the first category to reach a new
// maximum weight wins ties.
const (
	CategoryGrammarSpelling  CategoryID = "grammar_spelling"
	CategoryImageGeneration  CategoryID = "image_generation"
	CategoryCoding           CategoryID = "coding"
	CategoryResearchAnalysis CategoryID = "research_analysis"
	CategoryContentCreation  CategoryID = "content_creation"
	CategoryGeneral          CategoryID = "general"
)

var categoryOrder = [...]CategoryID{
	CategoryGrammarSpelling,
	CategoryImageGeneration,
	CategoryCoding,
	CategoryResearchAnalysis,
	CategoryContentCreation,
	CategoryGeneral,
}

var categoryNames = map[CategoryID]string{
	CategoryGrammarSpelling:  "Grammar & Spelling",
	CategoryImageGeneration:  "Image Generation",
	CategoryCoding:           "Coding & Development",
	CategoryResearchAnalysis: "Research & Analysis",
	CategoryContentCreation:  "Content Creation",
	CategoryGeneral:          "General",
}

// AllCategories returns every category id in enumeration order.
func AllCategories() []CategoryID {
	out := make([]CategoryID, len(categoryOrder))
	copy(out, categoryOrder[:])
	return out
}

// ParseCategoryID validates a raw category string. Matching is case-insensitive
// and tolerates surrounding whitespace.
func ParseCategoryID(s string) (CategoryID, error) {
	id := CategoryID(strings.ToLower(strings.TrimSpace(s)))
	if id.Valid() {
		return id, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Valid reports whether id is a member of the fixed enumeration.
func (id CategoryID) Valid() bool {
	_, ok := categoryNames[id]
	return ok
}

// DisplayName returns the human-readable name of the category.
func (id CategoryID) DisplayName() string {
	if name, ok := categoryNames[id]; ok {
		return name
	}
	return string(id)
}

func (id CategoryID) String() string {
	return string(id)
}

// Category is a category definition used by the fast path. Keyword and pattern
// sets are built once at startup and never modified.
type Category struct {
	ID       CategoryID
	Name     string
	Keywords []string
	Patterns []string
}
