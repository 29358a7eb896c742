package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/triage"
)

// Config is the typed application configuration.
type Config struct {
	DatabasePath string
	LLM          llm.Config
	Triage       triage.Config
}

// apiKeyEnv maps providers to the environment variable holding their key.
var apiKeyEnv = map[string]string{
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
}

// DefaultDatabasePath returns the database location used when none is configured.
func DefaultDatabasePath() string {
	return ExpandPath(filepath.Join("~", ".local", "share", "smith", "smith.db"))
}

// Load builds the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds the configuration from v. It follows this precedence:
// 1. Viper configuration (from config file or SMITH_ env vars)
// 2. Provider environment variables for API keys (ANTHROPIC_API_KEY, ...)
// 3. Default values
//
// A missing API key is not an error here; classification falls back to the
// fast path and refinement reports the missing credential.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath: DefaultDatabasePath(),
		Triage:       triage.DefaultConfig(),
		LLM: llm.Config{
			Provider: llm.ProviderAnthropic,
		},
	}

	if p := v.GetString("database.path"); p != "" {
		cfg.DatabasePath = ExpandPath(p)
	}

	if p := v.GetString("llm.provider"); p != "" {
		cfg.LLM.Provider = strings.ToLower(p)
	}
	envName, ok := apiKeyEnv[cfg.LLM.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.LLM.Provider)
	}
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.APIKey = v.GetString("llm.api_key")
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(envName)
	}
	if v.IsSet("llm.timeout") {
		cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	}
	if cfg.LLM.Timeout < 0 {
		return nil, fmt.Errorf("%w: llm.timeout must not be negative", common.ErrInvalidConfig)
	}

	if v.IsSet("triage.confidence_threshold") {
		cfg.Triage.ConfidenceThreshold = v.GetFloat64("triage.confidence_threshold")
	}
	if v.IsSet("triage.min_total_weight") {
		cfg.Triage.WeightFloor = v.GetInt("triage.min_total_weight")
	}
	if v.IsSet("triage.similarity_threshold") {
		cfg.Triage.SimilarityThreshold = v.GetFloat64("triage.similarity_threshold")
	}
	if v.IsSet("triage.similarity_limit") {
		cfg.Triage.SimilarityLimit = v.GetInt("triage.similarity_limit")
	}
	if v.IsSet("triage.max_golden_examples") {
		cfg.Triage.MaxGoldenExamples = v.GetInt("triage.max_golden_examples")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasCredential reports whether an API key is configured.
func (c *Config) HasCredential() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}

func (c *Config) validate() error {
	t := c.Triage
	switch {
	case t.ConfidenceThreshold < 0 || t.ConfidenceThreshold > 1:
		return fmt.Errorf("%w: triage.confidence_threshold must be between 0 and 1", common.ErrInvalidConfig)
	case t.SimilarityThreshold <= 0 || t.SimilarityThreshold > 1:
		return fmt.Errorf("%w: triage.similarity_threshold must be above 0 and at most 1", common.ErrInvalidConfig)
	case t.WeightFloor < 0:
		return fmt.Errorf("%w: triage.min_total_weight must not be negative", common.ErrInvalidConfig)
	case t.SimilarityLimit < 1:
		return fmt.Errorf("%w: triage.similarity_limit must be at least 1", common.ErrInvalidConfig)
	case t.MaxGoldenExamples < 0:
		return fmt.Errorf("%w: triage.max_golden_examples must not be negative", common.ErrInvalidConfig)
	}
	return nil
}
