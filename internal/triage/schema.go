package triage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/model"
)

const classificationToolName = "classify_prompt"

// AIClassification is the structured answer requested from the model.
type AIClassification struct {
	Category           string   `json:"category"`
	Rationale          string   `json:"rationale"`
	ReasoningSteps     []string `json:"reasoning_steps"`
	KeyIndicators      []string `json:"key_indicators"`
	ConfidenceScore    float64  `json:"confidence_score"`
	PromptQualityScore float64  `json:"prompt_quality_score"`
	RefinementNeeded   bool     `json:"refinement_needed"`
}

// classificationSchema builds the JSON schema sent to the provider and used
// to validate its answer.
func classificationSchema() map[string]any {
	categories := model.AllCategories()
	enum := make([]string, len(categories))
	for i, id := range categories {
		enum[i] = string(id)
	}

	return map[string]any{
		"type": "object",
		"required": []string{
			"reasoning_steps", "category", "confidence_score", "rationale",
			"prompt_quality_score", "refinement_needed", "key_indicators",
		},
		"properties": map[string]any{
			"reasoning_steps": map[string]any{
				"type":        "array",
				"description": "Short ordered steps leading to the category decision",
				"items":       map[string]any{"type": "string"},
			},
			"category": map[string]any{
				"type":        "string",
				"description": "The single best category for the prompt",
				"enum":        enum,
			},
			"confidence_score": map[string]any{
				"type":        "number",
				"description": "Confidence in the category between 0 and 1",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One sentence explaining the decision",
			},
			"prompt_quality_score": map[string]any{
				"type":        "number",
				"description": "Prompt quality from 0 to 100",
			},
			"refinement_needed": map[string]any{
				"type":        "boolean",
				"description": "Whether the prompt would benefit from a rewrite",
			},
			"key_indicators": map[string]any{
				"type":        "array",
				"description": "Words or phrases that signalled the category",
				"items":       map[string]any{"type": "string"},
			},
		},
	}
}

// schemaValidator checks model output against the classification schema.
type schemaValidator struct {
	schema *gojsonschema.Schema
}

func newSchemaValidator() (*schemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(classificationSchema()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile classification schema: %w", err)
	}
	return &schemaValidator{schema: schema}, nil
}

// Decode validates payload and decodes it. Every failure is a
// *common.ValidationError.
func (v *schemaValidator) Decode(payload []byte) (AIClassification, error) {
	var out AIClassification

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return out, &common.ValidationError{Field: "response", Err: err}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return out, &common.ValidationError{
			Field: "response",
			Err:   fmt.Errorf("schema violation: %s", strings.Join(problems, "; ")),
		}
	}

	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &common.ValidationError{Field: "response", Err: err}
	}
	if _, err := model.ParseCategoryID(out.Category); err != nil {
		return out, &common.ValidationError{Field: "category", Err: err}
	}
	return out, nil
}
