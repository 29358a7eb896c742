package storage

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/promptsmith/internal/model"
)

// ErrEmptySeedFile is returned when a seed file holds neither prompts nor
// golden examples.
var ErrEmptySeedFile = errors.New("seed file has no prompts or golden examples")

// SeedFile is the YAML layout accepted by `smith corpus import`.
//
//	prompts:
//	  - title: Refactor helper
//	    content: Refactor this Go function to remove the global state
//	    category: coding
//	    tags: [go, refactor]
//	golden:
//	  - prompt: heyy can u fix my spelling
//	    category: grammar_spelling
//	    confidence: 0.95
type SeedFile struct {
	Prompts []SeedPrompt `yaml:"prompts"`
	Golden  []SeedGolden `yaml:"golden"`
}

// SeedPrompt is a corpus entry in a seed file.
type SeedPrompt struct {
	Title    string   `yaml:"title"`
	Content  string   `yaml:"content"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

// SeedGolden is a golden example in a seed file.
type SeedGolden struct {
	Confidence *float64 `yaml:"confidence"`
	Prompt     string   `yaml:"prompt"`
	Category   string   `yaml:"category"`
}

// LoadSeedFile reads and validates a seed file. Categories are normalized.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(seed.Prompts) == 0 && len(seed.Golden) == 0 {
		return nil, ErrEmptySeedFile
	}

	for i := range seed.Prompts {
		entry := seed.Prompts[i].entry()
		if err := validateCorpusEntry(&entry); err != nil {
			return nil, fmt.Errorf("prompts[%d]: %w", i, err)
		}
		seed.Prompts[i].Category = entry.Category
	}
	for i := range seed.Golden {
		example := seed.Golden[i].example()
		if err := validateGoldenExample(&example); err != nil {
			return nil, fmt.Errorf("golden[%d]: %w", i, err)
		}
		seed.Golden[i].Category = example.CorrectCategory.String()
	}
	return &seed, nil
}

// CorpusEntries converts the seed prompts to corpus entries.
func (s *SeedFile) CorpusEntries() []model.CorpusEntry {
	entries := make([]model.CorpusEntry, 0, len(s.Prompts))
	for _, p := range s.Prompts {
		entries = append(entries, p.entry())
	}
	return entries
}

// GoldenExamples converts the seed golden section to golden examples.
func (s *SeedFile) GoldenExamples() []model.GoldenExample {
	examples := make([]model.GoldenExample, 0, len(s.Golden))
	for _, g := range s.Golden {
		examples = append(examples, g.example())
	}
	return examples
}

func (p SeedPrompt) entry() model.CorpusEntry {
	return model.CorpusEntry{
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		Tags:     p.Tags,
	}
}

func (g SeedGolden) example() model.GoldenExample {
	return model.GoldenExample{
		Prompt:          g.Prompt,
		CorrectCategory: model.CategoryID(g.Category),
		Confidence:      g.Confidence,
	}
}
