package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)```")

// ExtractJSON pulls a JSON object out of free-form model output. It prefers a
// fenced code block, then the outermost {...} span, and finally the trimmed
// text itself. The bool is false when nothing valid was found.
func ExtractJSON(content string) (string, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", false
	}

	for _, match := range fencedBlockPattern.FindAllStringSubmatch(content, -1) {
		candidate := strings.TrimSpace(match[1])
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		candidate := content[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, true
		}
	}

	if json.Valid([]byte(content)) {
		return content, true
	}

	return "", false
}

// StructuredPayload returns the structured JSON for a response: the provider's
// structured output when present, otherwise JSON extracted from the text.
func StructuredPayload(resp Response) ([]byte, bool) {
	if len(resp.Structured) > 0 && json.Valid(resp.Structured) {
		return resp.Structured, true
	}
	extracted, ok := ExtractJSON(resp.Text)
	if !ok {
		return nil, false
	}
	return []byte(extracted), true
}
