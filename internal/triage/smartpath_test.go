package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/model"
)

type stubGolden struct {
	err      error
	examples []model.GoldenExample
}

func (s *stubGolden) ListGoldenExamples(_ context.Context) ([]model.GoldenExample, error) {
	return s.examples, s.err
}

const validAIResponse = `{
	"reasoning_steps": ["mentions a login form", "asks for html and css"],
	"category": "coding",
	"confidence_score": 0.93,
	"rationale": "The user wants front-end code.",
	"prompt_quality_score": 42,
	"refinement_needed": true,
	"key_indicators": ["login form", "html"]
}`

func newTestSmartPath(t *testing.T, gen llm.Generator, golden GoldenSet) *SmartPath {
	t.Helper()
	sp, err := NewSmartPath(gen, golden, 0, common.DiscardLogger())
	require.NoError(t, err)
	return sp
}

func TestSmartPath_MergesStructuredResponse(t *testing.T) {
	ctx := context.Background()
	prompt := "i need a login form, pretty one"
	fast := newTestFastPath(&stubCorpus{entries: []model.CorpusEntry{{Content: "need pretty login form", Category: "coding"}}}).
		Classify(ctx, prompt)

	gen := llm.NewMockGenerator(llm.Response{Structured: []byte(validAIResponse)})
	outcome := newTestSmartPath(t, gen, nil).Classify(ctx, prompt, fast)

	smart, ok := outcome.(SmartPathOutcome)
	require.True(t, ok, "expected smart path outcome, got %T", outcome)
	result := Resolve(smart)

	assert.Equal(t, model.SourceSmartPath, result.Source)
	assert.Equal(t, model.CategoryCoding, result.PrimaryCategory)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
	assert.Equal(t, []string{"mentions a login form", "asks for html and css", "The user wants front-end code."}, result.Reasoning)
	assert.Equal(t, []string{"login form", "html"}, result.KeyIndicators)
	assert.Equal(t, 42, result.QualityScore)
	assert.Equal(t, model.RefinementMedium, result.RefinementNeed)

	// Evidence gathered by the fast path is carried over untouched.
	assert.Equal(t, fast.Scores, result.Scores)
	assert.Equal(t, fast.TotalWeight, result.TotalWeight)
	assert.Equal(t, fast.SimilarPrompts, result.SimilarPrompts)
	assert.NotEmpty(t, result.SimilarPrompts)
	assert.Equal(t, fast.HasSharedImages, result.HasSharedImages)
}

func TestSmartPath_RequestParameters(t *testing.T) {
	gen := llm.NewMockGenerator(llm.Response{Structured: []byte(validAIResponse)})
	sp := newTestSmartPath(t, gen, nil)

	fast := newTestFastPath(nil).Classify(context.Background(), "photo bug")
	sp.Classify(context.Background(), "photo bug", fast)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.InDelta(t, 0.2, req.Temperature, 1e-9)
	assert.Equal(t, 20, req.TopK)
	assert.InDelta(t, 0.8, req.TopP, 1e-9)
	assert.Equal(t, 1024, req.MaxOutputTokens)
	assert.Equal(t, classificationToolName, req.SchemaName)
	assert.Contains(t, req.Schema, "properties")
	assert.Contains(t, req.UserPrompt, "photo bug")
	assert.Contains(t, req.UserPrompt, "image_generation (1)")
	for _, id := range model.AllCategories() {
		assert.Contains(t, req.SystemInstruction, string(id))
	}
	assert.Contains(t, req.SystemInstruction, "not a language or framework requirement")
	assert.NotContains(t, req.SystemInstruction, "Confirmed examples")
}

func TestSmartPath_GoldenExamples(t *testing.T) {
	conf := 0.4
	var examples []model.GoldenExample
	for i := range 15 {
		examples = append(examples, model.GoldenExample{
			Prompt:          fmt.Sprintf("golden prompt %02d", i),
			CorrectCategory: model.CategoryContentCreation,
			Confidence:      &conf,
			CreatedAt:       time.Now(),
		})
	}

	gen := llm.NewMockGenerator(llm.Response{Structured: []byte(validAIResponse)})
	sp := newTestSmartPath(t, gen, &stubGolden{examples: examples})
	sp.Classify(context.Background(), "hello", model.ClassificationResult{})

	instruction := gen.Calls()[0].SystemInstruction
	assert.Contains(t, instruction, "Confirmed examples")
	assert.Contains(t, instruction, `"golden prompt 00" => content_creation`)
	assert.Contains(t, instruction, `"golden prompt 09" => content_creation`)
	assert.NotContains(t, instruction, "golden prompt 10")
}

func TestSmartPath_GoldenSetErrorStillClassifies(t *testing.T) {
	gen := llm.NewMockGenerator(llm.Response{Structured: []byte(validAIResponse)})
	sp := newTestSmartPath(t, gen, &stubGolden{err: errors.New("locked")})

	outcome := sp.Classify(context.Background(), "hello", model.ClassificationResult{})
	assert.IsType(t, SmartPathOutcome{}, outcome)
}

func TestSmartPath_FreeTextResponses(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "fenced block", text: "Here you go:\n```json\n" + validAIResponse + "\n```"},
		{name: "bare object in prose", text: "Sure! " + validAIResponse + " Hope that helps."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := llm.NewMockGeneratorText(tt.text)
			outcome := newTestSmartPath(t, gen, nil).Classify(context.Background(), "x", model.ClassificationResult{})
			smart, ok := outcome.(SmartPathOutcome)
			require.True(t, ok)
			assert.Equal(t, "coding", smart.AI.Category)
		})
	}
}

func TestSmartPath_FallsBackToFastPath(t *testing.T) {
	tests := []struct {
		gen      *llm.MockGenerator
		checkErr func(t *testing.T, err error)
		name     string
	}{
		{
			name: "transport failure",
			gen: llm.NewMockGenerator().FailWith(0,
				common.NewServiceError("anthropic.generate", 503, errors.New("overloaded"))),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, common.IsServiceError(err))
			},
		},
		{
			name: "malformed json",
			gen:  llm.NewMockGeneratorText(`{"category": "coding", "confidence_score": `),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, errNoStructuredOutput)
			},
		},
		{
			name: "unknown category",
			gen: llm.NewMockGenerator(llm.Response{Structured: []byte(
				strings.Replace(validAIResponse, `"coding"`, `"poetry"`, 1))}),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var vErr *common.ValidationError
				assert.ErrorAs(t, err, &vErr)
			},
		},
		{
			name: "missing fields",
			gen:  llm.NewMockGenerator(llm.Response{Structured: []byte(`{"category":"coding"}`)}),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var vErr *common.ValidationError
				assert.ErrorAs(t, err, &vErr)
			},
		},
		{
			name: "wrong types",
			gen: llm.NewMockGenerator(llm.Response{Structured: []byte(
				strings.Replace(validAIResponse, `"refinement_needed": true`, `"refinement_needed": "yes"`, 1))}),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				var vErr *common.ValidationError
				assert.ErrorAs(t, err, &vErr)
			},
		},
	}

	prompt := "photo bug"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fast := newTestFastPath(nil).Classify(context.Background(), prompt)
			outcome := newTestSmartPath(t, tt.gen, nil).Classify(context.Background(), prompt, fast)

			fallback, ok := outcome.(FastPathOutcome)
			require.True(t, ok, "expected fast path outcome, got %T", outcome)
			tt.checkErr(t, fallback.Cause)
			assert.Equal(t, fast, Resolve(outcome))
		})
	}
}

func TestMerge(t *testing.T) {
	fast := model.ClassificationResult{
		Scores:          map[model.CategoryID]model.CategoryScore{model.CategoryGeneral: {Weight: 1}},
		PrimaryCategory: model.CategoryGeneral,
		Source:          model.SourceFastPath,
		TotalWeight:     1,
		HasSharedImages: true,
		QualityScore:    20,
		RefinementNeed:  model.RefinementHigh,
	}

	t.Run("clamps out of range values", func(t *testing.T) {
		got := merge(fast, AIClassification{Category: "coding", ConfidenceScore: 1.7, PromptQualityScore: 140})
		assert.InDelta(t, 1.0, got.Confidence, 1e-9)
		assert.Equal(t, 100, got.QualityScore)
		assert.Equal(t, model.RefinementLow, got.RefinementNeed)

		got = merge(fast, AIClassification{Category: "coding", ConfidenceScore: -0.2, PromptQualityScore: -5})
		assert.Zero(t, got.Confidence)
		assert.Zero(t, got.QualityScore)
		assert.Equal(t, model.RefinementHigh, got.RefinementNeed)
	})

	t.Run("refinement needed never yields low", func(t *testing.T) {
		got := merge(fast, AIClassification{Category: "coding", PromptQualityScore: 85, RefinementNeeded: true})
		assert.Equal(t, model.RefinementMedium, got.RefinementNeed)
	})

	t.Run("rationale only", func(t *testing.T) {
		got := merge(fast, AIClassification{Category: "general", Rationale: "small talk"})
		assert.Equal(t, []string{"small talk"}, got.Reasoning)
	})

	t.Run("keeps fast path evidence", func(t *testing.T) {
		got := merge(fast, AIClassification{Category: "research_analysis", ConfidenceScore: 0.8, PromptQualityScore: 55})
		assert.Equal(t, fast.Scores, got.Scores)
		assert.Equal(t, 1, got.TotalWeight)
		assert.True(t, got.HasSharedImages)
		assert.Equal(t, model.CategoryResearchAnalysis, got.PrimaryCategory)
	})

	t.Run("owns its scores and similar prompts", func(t *testing.T) {
		base := model.ClassificationResult{
			Scores: map[model.CategoryID]model.CategoryScore{
				model.CategoryCoding: {Weight: 2, Matches: []string{"python"}},
			},
			SimilarPrompts: []model.SimilarityMatch{{Title: "Calculator app", Score: 0.5}},
		}

		got := merge(base, AIClassification{Category: "coding", ConfidenceScore: 0.9})
		got.Scores[model.CategoryGeneral] = model.CategoryScore{Weight: 9}
		got.Scores[model.CategoryCoding].Matches[0] = "changed"
		got.SimilarPrompts[0].Title = "changed"

		assert.Len(t, base.Scores, 1)
		assert.Equal(t, []string{"python"}, base.Scores[model.CategoryCoding].Matches)
		assert.Equal(t, "Calculator app", base.SimilarPrompts[0].Title)
	})
}

func TestNewSmartPath_RequiresGenerator(t *testing.T) {
	_, err := NewSmartPath(nil, nil, 0, common.DiscardLogger())
	assert.Error(t, err)
}
