package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/promptsmith/internal/common"
)

// Platform identifies the downstream chat surface a refined prompt is sent to.
type Platform string

// Supported platforms.
const (
	PlatformChatGPT    Platform = "chatgpt"
	PlatformClaude     Platform = "claude"
	PlatformGemini     Platform = "gemini"
	PlatformPerplexity Platform = "perplexity"
	PlatformCopilot    Platform = "copilot"
	PlatformGrok       Platform = "grok"
	PlatformDallE      Platform = "dalle"
	PlatformMidjourney Platform = "midjourney"
)

var platforms = []Platform{
	PlatformChatGPT,
	PlatformClaude,
	PlatformGemini,
	PlatformPerplexity,
	PlatformCopilot,
	PlatformGrok,
	PlatformDallE,
	PlatformMidjourney,
}

// Platforms returns all supported platforms.
func Platforms() []Platform {
	return append([]Platform(nil), platforms...)
}

// ParsePlatform validates a platform identifier.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range platforms {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnsupportedPlatform, s)
}

func (p Platform) String() string {
	return string(p)
}
