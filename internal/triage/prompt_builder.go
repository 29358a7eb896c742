package triage

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Veraticus/promptsmith/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var categoryDefinitions = map[model.CategoryID]string{
	model.CategoryGrammarSpelling:  "the user wants their own text (a message, email, note) corrected for spelling, grammar or tone without changing what it says; casual or misspelled messages addressed to another person belong here.",
	model.CategoryImageGeneration:  "the user wants a picture, illustration, logo, photo edit or other visual created or modified by an image model.",
	model.CategoryCoding:           "the user wants software written, explained, debugged or designed, including apps, scripts, queries and user interfaces.",
	model.CategoryResearchAnalysis: "the user wants information gathered, compared, summarized or analyzed, such as studies, data, history or pros and cons.",
	model.CategoryContentCreation:  "the user wants original written content produced for an audience: posts, articles, stories, captions, emails or marketing copy.",
	model.CategoryGeneral:          "anything else, including open questions, advice and conversation that fits no other category.",
}

var classificationPitfalls = []string{
	"Style descriptors naming a brand (\"apple like\", \"google style\") are not a language or framework requirement.",
	"Words such as \"ui\", \"pretty\" or \"design\" inside a request to build software still mean coding, not image generation.",
	"A casual message written to another person is grammar_spelling even when it contains slang or insults.",
	"\"Write\" alone does not mean content_creation; check whether the user is asking to fix text they already wrote.",
	"Questions that ask for facts or comparisons are research_analysis only when they need sourcing or analysis; otherwise general.",
	"Requests to edit an uploaded photo are image_generation.",
}

// promptBuilder renders the smart-path instruction and request.
type promptBuilder struct {
	templates map[string]*template.Template
}

func newPromptBuilder() (*promptBuilder, error) {
	pb := &promptBuilder{templates: make(map[string]*template.Template)}

	funcMap := template.FuncMap{
		"definition": func(id model.CategoryID) string { return categoryDefinitions[id] },
		"truncate":   truncate,
		"join":       strings.Join,
	}

	for _, name := range []string{"classification_instruction", "classification_request"} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(name + ".tmpl").Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pb.templates[name] = tmpl
	}
	return pb, nil
}

// BuildInstruction renders the system instruction with the given few-shot examples.
func (pb *promptBuilder) BuildInstruction(examples []model.GoldenExample) (string, error) {
	data := struct {
		Categories []model.Category
		Pitfalls   []string
		Examples   []model.GoldenExample
	}{
		Categories: Categories(),
		Pitfalls:   classificationPitfalls,
		Examples:   examples,
	}
	return pb.execute("classification_instruction", data)
}

// BuildRequest renders the user turn, including the fast-path categories that
// scored as hints.
func (pb *promptBuilder) BuildRequest(prompt string, fast model.ClassificationResult) (string, error) {
	var hints []string
	for _, id := range model.AllCategories() {
		if w := fast.Score(id).Weight; w > 0 {
			hints = append(hints, fmt.Sprintf("%s (%d)", id, w))
		}
	}
	data := struct {
		Prompt string
		Hints  []string
	}{Prompt: prompt, Hints: hints}
	return pb.execute("classification_request", data)
}

func (pb *promptBuilder) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pb.templates[name].ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", name, err)
	}
	return buf.String(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
