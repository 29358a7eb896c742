// Package llm provides the text-generation service used for smart-path
// classification and prompt refinement. It supports Anthropic, OpenAI and
// Gemini behind a single Generator interface. Calls are made exactly once:
// there is no retry, caching or rate limiting at this layer.
package llm
