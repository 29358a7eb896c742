package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Generator defines the interface for text-generation providers.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request is a single text-generation call. Zero sampling values leave the
// provider default in place.
type Request struct {
	// Schema, when set, asks the provider for a structured JSON object matching
	// it. Providers without native support fall back to a JSON instruction.
	Schema            map[string]any
	SchemaName        string
	SystemInstruction string
	UserPrompt        string
	Temperature       float64
	TopP              float64
	TopK              int
	MaxOutputTokens   int
}

// Response contains the generated output.
type Response struct {
	// Structured holds the provider's structured output, if it returned one.
	Structured json.RawMessage
	Text       string
	Usage      Usage
}

// Usage reports token consumption for a call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Config holds configuration for a generator.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint; used by tests and proxies.
	BaseURL string
	Timeout time.Duration
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
