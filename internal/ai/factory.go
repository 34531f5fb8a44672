package ai

import (
	"fmt"
	"os"
	"strings"
)

// NewProvider builds a provider from a "provider:model" string, e.g.
// "claude:claude-sonnet-4-5" or "openai:gpt-4o". An empty API key falls
// back to the provider's conventional environment variable.
func NewProvider(modelStr string, cfg Config) (Provider, error) {
	provider, model, ok := strings.Cut(modelStr, ":")
	if !ok {
		return nil, fmt.Errorf("ai: invalid model %q (expected provider:model)", modelStr)
	}
	cfg.Model = model

	switch provider {
	case "claude", "anthropic":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ai: claude api key missing (set ANTHROPIC_API_KEY)")
		}
		return NewClaude(cfg), nil
	case "openai":
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("ai: openai api key missing (set OPENAI_API_KEY)")
		}
		return NewOpenAI(cfg), nil
	}
	return nil, fmt.Errorf("ai: unsupported provider %q (supported: claude, openai)", provider)
}
