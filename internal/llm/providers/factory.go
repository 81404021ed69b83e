package providers

import (
	"fmt"

	"agent-eval/internal/config"
)

// NewClient builds the LLM client for the configured provider. The same
// client serves both prompt summarization and approach analysis; when no
// provider is configured the platform skips the call entirely, so callers
// only reach this with a non-empty provider name.
func NewClient(cfg *config.Config) (LLMClient, error) {
	switch cfg.ModelProvider {
	case "claude":
		return NewClaude(cfg), nil

	case "gemini":
		return NewGemini(cfg), nil

	case "llama":
		return NewLlama(cfg), nil

	default:
		return nil, fmt.Errorf("unsupported model provider %q (supported: claude, gemini, llama)", cfg.ModelProvider)
	}
}
