package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com"
)

// openAIGenerator implements Generator for the OpenAI chat completions API.
type openAIGenerator struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func newOpenAIGenerator(cfg Config) *openAIGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &openAIGenerator{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate sends a chat completion request to OpenAI. OpenAI has no top-k
// control, so TopK is ignored.
func (g *openAIGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	messages := make([]map[string]string, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": req.SystemInstruction,
		})
	}
	messages = append(messages, map[string]string{
		"role":    "user",
		"content": req.UserPrompt,
	})

	requestBody := map[string]any{
		"model":    g.model,
		"messages": messages,
	}
	if req.Temperature > 0 {
		requestBody["temperature"] = req.Temperature
	}
	if req.TopP > 0 {
		requestBody["top_p"] = req.TopP
	}
	if req.MaxOutputTokens > 0 {
		requestBody["max_tokens"] = req.MaxOutputTokens
	}
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = defaultSchemaName
		}
		requestBody["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   name,
				"schema": req.Schema,
			},
		}
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, common.NewServiceError("openai chat completion", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, common.NewServiceError("openai chat completion", resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, common.NewServiceError("openai chat completion", resp.StatusCode, fmt.Errorf("OpenAI API error: %s", string(body)))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Response{}, common.NewServiceError("openai chat completion", resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Choices) == 0 {
		return Response{}, common.NewServiceError("openai chat completion", resp.StatusCode, fmt.Errorf("no completion choices returned"))
	}

	content := response.Choices[0].Message.Content
	out := Response{
		Text: content,
		Usage: Usage{
			InputTokens:  response.Usage.PromptTokens,
			OutputTokens: response.Usage.CompletionTokens,
		},
	}
	if req.Schema != nil && json.Valid([]byte(content)) {
		out.Structured = json.RawMessage(content)
	}

	return out, nil
}
