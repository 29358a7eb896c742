package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
)

const (
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
)

// geminiGenerator implements Generator for the Gemini generateContent API.
// It is the only provider with native top-k and response schema support.
type geminiGenerator struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

func newGeminiGenerator(cfg Config) *geminiGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &geminiGenerator{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  map[string]any  `json:"generationConfig,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int64 `json:"promptTokenCount"`
		CandidatesTokenCount int64 `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// Generate sends a generateContent request to Gemini.
func (g *geminiGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.UserPrompt}},
		}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}

	genCfg := map[string]any{}
	if req.Temperature > 0 {
		genCfg["temperature"] = req.Temperature
	}
	if req.TopK > 0 {
		genCfg["topK"] = req.TopK
	}
	if req.TopP > 0 {
		genCfg["topP"] = req.TopP
	}
	if req.MaxOutputTokens > 0 {
		genCfg["maxOutputTokens"] = req.MaxOutputTokens
	}
	if req.Schema != nil {
		genCfg["responseMimeType"] = "application/json"
		genCfg["responseSchema"] = toGeminiSchema(req.Schema)
	}
	if len(genCfg) > 0 {
		body.GenerationConfig = genCfg
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, common.NewServiceError("gemini generate content", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, common.NewServiceError("gemini generate content", resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, common.NewServiceError("gemini generate content", resp.StatusCode, fmt.Errorf("gemini API error: %s", string(raw)))
	}

	var response geminiResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return Response{}, common.NewServiceError("gemini generate content", resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return Response{}, common.NewServiceError("gemini generate content", resp.StatusCode, fmt.Errorf("no candidates in response"))
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	out := Response{
		Text: text.String(),
		Usage: Usage{
			InputTokens:  response.UsageMetadata.PromptTokenCount,
			OutputTokens: response.UsageMetadata.CandidatesTokenCount,
		},
	}
	if req.Schema != nil && json.Valid([]byte(out.Text)) {
		out.Structured = json.RawMessage(out.Text)
	}

	return out, nil
}

// toGeminiSchema converts a JSON schema into Gemini's OpenAPI subset: type
// names are upper-cased and unsupported keywords are dropped.
func toGeminiSchema(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for key, value := range schema {
		switch key {
		case "type":
			if s, ok := value.(string); ok {
				out[key] = strings.ToUpper(s)
			}
		case "properties":
			props, ok := value.(map[string]any)
			if !ok {
				continue
			}
			converted := make(map[string]any, len(props))
			for name, prop := range props {
				if p, ok := prop.(map[string]any); ok {
					converted[name] = toGeminiSchema(p)
				}
			}
			out[key] = converted
		case "items":
			if p, ok := value.(map[string]any); ok {
				out[key] = toGeminiSchema(p)
			}
		case "required", "enum", "description", "minimum", "maximum", "format":
			out[key] = value
		}
	}
	return out
}
