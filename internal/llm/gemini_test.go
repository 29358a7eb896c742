package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/promptsmith/internal/common"
)

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Run("sends sampling config and schema", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			genCfg, ok := body["generationConfig"].(map[string]any)
			require.True(t, ok)
			assert.InDelta(t, 0.2, genCfg["temperature"], 0.0001)
			assert.InDelta(t, 20, genCfg["topK"], 0.0001)
			assert.InDelta(t, 0.8, genCfg["topP"], 0.0001)
			assert.InDelta(t, 1024, genCfg["maxOutputTokens"], 0.0001)
			assert.Equal(t, "application/json", genCfg["responseMimeType"])

			schema, ok := genCfg["responseSchema"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "OBJECT", schema["type"])
			assert.NotContains(t, schema, "additionalProperties")

			system, ok := body["systemInstruction"].(map[string]any)
			require.True(t, ok)
			assert.NotEmpty(t, system["parts"])

			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"category\":\"coding\"}"}]}}],"usageMetadata":{"promptTokenCount":40,"candidatesTokenCount":8}}`))
		}))
		defer server.Close()

		gen := newGeminiGenerator(Config{APIKey: "test-key", Model: "gemini-test", BaseURL: server.URL})
		resp, err := gen.Generate(context.Background(), Request{
			SystemInstruction: "classify",
			UserPrompt:        "write a python script",
			Temperature:       0.2,
			TopK:              20,
			TopP:              0.8,
			MaxOutputTokens:   1024,
			Schema: map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"category": map[string]any{"type": "string"},
				},
			},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"category":"coding"}`, string(resp.Structured))
		assert.Equal(t, int64(40), resp.Usage.InputTokens)
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		gen := newGeminiGenerator(Config{APIKey: "k", BaseURL: server.URL})
		_, err := gen.Generate(context.Background(), Request{UserPrompt: "hi"})

		var svcErr *common.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	})

	t.Run("empty candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		gen := newGeminiGenerator(Config{APIKey: "k", BaseURL: server.URL})
		_, err := gen.Generate(context.Background(), Request{UserPrompt: "hi"})
		assert.True(t, common.IsServiceError(err))
	})
}

func TestToGeminiSchema(t *testing.T) {
	in := map[string]any{
		"type":     "object",
		"required": []string{"tags"},
		"properties": map[string]any{
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": []string{"a", "b"}},
			},
		},
		"$schema": "http://json-schema.org/draft-07/schema#",
	}

	out := toGeminiSchema(in)

	assert.Equal(t, "OBJECT", out["type"])
	assert.NotContains(t, out, "$schema")
	assert.Equal(t, []string{"tags"}, out["required"])

	tags := out["properties"].(map[string]any)["tags"].(map[string]any)
	assert.Equal(t, "ARRAY", tags["type"])
	items := tags["items"].(map[string]any)
	assert.Equal(t, "STRING", items["type"])
	assert.Equal(t, []string{"a", "b"}, items["enum"])
}
