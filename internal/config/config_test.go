package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
	"github.com/Veraticus/promptsmith/internal/llm"
	"github.com/Veraticus/promptsmith/internal/triage"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, triage.DefaultConfig(), cfg.Triage)
	assert.Equal(t, DefaultDatabasePath(), cfg.DatabasePath)
	assert.False(t, cfg.HasCredential())
}

func TestLoadFrom_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("database.path", "/tmp/smith/test.db")
	v.Set("llm.provider", "Gemini")
	v.Set("llm.model", "gemini-2.0-pro")
	v.Set("llm.api_key", "from-config")
	v.Set("llm.timeout", "15s")
	v.Set("triage.confidence_threshold", 0.75)
	v.Set("triage.min_total_weight", 2)
	v.Set("triage.similarity_threshold", 0.5)
	v.Set("triage.similarity_limit", 5)
	v.Set("triage.max_golden_examples", 0)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/smith/test.db", cfg.DatabasePath)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-pro", cfg.LLM.Model)
	assert.Equal(t, "from-config", cfg.LLM.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, triage.Config{
		ConfidenceThreshold: 0.75,
		SimilarityThreshold: 0.5,
		WeightFloor:         2,
		SimilarityLimit:     5,
		MaxGoldenExamples:   0,
	}, cfg.Triage)
	assert.True(t, cfg.HasCredential())
}

func TestLoadFrom_APIKeyEnvironmentFallback(t *testing.T) {
	tests := []struct {
		provider string
		envVar   string
	}{
		{provider: llm.ProviderAnthropic, envVar: "ANTHROPIC_API_KEY"},
		{provider: llm.ProviderOpenAI, envVar: "OPENAI_API_KEY"},
		{provider: llm.ProviderGemini, envVar: "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv(tt.envVar, "env-key")
			v := viper.New()
			v.Set("llm.provider", tt.provider)

			cfg, err := LoadFrom(v)
			require.NoError(t, err)
			assert.Equal(t, "env-key", cfg.LLM.APIKey)
		})
	}
}

func TestLoadFrom_ConfigKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	v := viper.New()
	v.Set("llm.provider", "openai")
	v.Set("llm.api_key", "config-key")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "config-key", cfg.LLM.APIKey)
}

func TestLoadFrom_MinTotalWeightZeroIsHonored(t *testing.T) {
	v := viper.New()
	v.Set("triage.min_total_weight", 0)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Triage.WeightFloor)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "unknown provider", key: "llm.provider", val: "claudecode"},
		{name: "negative timeout", key: "llm.timeout", val: "-1s"},
		{name: "confidence threshold above one", key: "triage.confidence_threshold", val: 1.2},
		{name: "negative similarity threshold", key: "triage.similarity_threshold", val: -0.1},
		{name: "zero similarity threshold", key: "triage.similarity_threshold", val: 0},
		{name: "similarity threshold above one", key: "triage.similarity_threshold", val: 1.5},
		{name: "negative min total weight", key: "triage.min_total_weight", val: -1},
		{name: "zero similarity limit", key: "triage.similarity_limit", val: 0},
		{name: "negative golden examples", key: "triage.max_golden_examples", val: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := LoadFrom(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SMITH_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/smith.db", want: filepath.Join(home, "smith.db")},
		{in: "$SMITH_TEST_DIR/smith.db", want: "/data/smith.db"},
		{in: "/abs/path.db", want: "/abs/path.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
