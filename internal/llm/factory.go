package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
)

// Supported provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// NewGenerator creates a generator based on the provided configuration.
// A missing API key yields common.ErrMissingCredential.
func NewGenerator(cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, common.ErrMissingCredential
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderAnthropic, "":
		return newAnthropicGenerator(cfg), nil
	case ProviderOpenAI:
		return newOpenAIGenerator(cfg), nil
	case ProviderGemini:
		return newGeminiGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}
