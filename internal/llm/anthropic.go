package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Veraticus/promptsmith/internal/common"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-5-20250929"
	defaultAnthropicMaxTokens = 1024
	defaultSchemaName         = "record_result"
)

// anthropicGenerator implements Generator using the Anthropic Messages API.
type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

func newAnthropicGenerator(cfg Config) *anthropicGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(newHTTPClient(cfg.Timeout)),
		// Each call is attempted once; failures surface to the caller.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Generate sends a single message request to Anthropic. When req.Schema is
// set, the schema is offered as a forced tool so the reply arrives as a
// structured tool input.
func (g *anthropicGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}
	if req.TopK > 0 {
		params.TopK = anthropic.Int(int64(req.TopK))
	}
	// Current Claude models reject temperature and top_p in the same request.
	// Temperature wins when both are given.
	switch {
	case req.Temperature > 0:
		params.Temperature = anthropic.Float(req.Temperature)
	case req.TopP > 0:
		params.TopP = anthropic.Float(req.TopP)
	}

	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = defaultSchemaName
		}
		required, _ := req.Schema["required"].([]string)
		params.Tools = []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        name,
				Description: anthropic.String("Record the structured result of the task."),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: req.Schema["properties"],
					Required:   required,
				},
			},
		}}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: name},
		}
	}

	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return Response{}, common.NewServiceError("anthropic messages", apiErr.StatusCode, err)
		}
		return Response{}, common.NewServiceError("anthropic messages", 0, err)
	}

	resp := Response{
		Usage: Usage{
			InputTokens:  message.Usage.InputTokens,
			OutputTokens: message.Usage.OutputTokens,
		},
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			if len(block.Input) > 0 {
				resp.Structured = block.Input
			}
		}
	}
	resp.Text = text.String()

	if resp.Text == "" && resp.Structured == nil {
		return Response{}, common.NewServiceError("anthropic messages", 0, fmt.Errorf("no content in response"))
	}

	return resp, nil
}
