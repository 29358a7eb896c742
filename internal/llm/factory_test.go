package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		wantErr  error
		wantType any
		name     string
		config   Config
	}{
		{
			name:     "anthropic",
			config:   Config{Provider: "anthropic", APIKey: "k"},
			wantType: &anthropicGenerator{},
		},
		{
			name:     "default provider is anthropic",
			config:   Config{APIKey: "k"},
			wantType: &anthropicGenerator{},
		},
		{
			name:     "openai",
			config:   Config{Provider: "OpenAI", APIKey: "k"},
			wantType: &openAIGenerator{},
		},
		{
			name:     "gemini",
			config:   Config{Provider: "gemini", APIKey: "k"},
			wantType: &geminiGenerator{},
		},
		{
			name:    "missing key",
			config:  Config{Provider: "openai"},
			wantErr: common.ErrMissingCredential,
		},
		{
			name:    "unknown provider",
			config:  Config{Provider: "llama", APIKey: "k"},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, gen)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, gen)
		})
	}
}

func TestMissingCredentialIsConfigError(t *testing.T) {
	assert.ErrorIs(t, common.ErrMissingCredential, common.ErrMissingConfig)
}
