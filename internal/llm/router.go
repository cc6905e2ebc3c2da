package llm

import (
	"fmt"

	"github.com/resumecast/resume-chat-service/config"
)

// New selects the protocol adapter for the configured backend type. The
// choice is made once at startup; an unsupported type is a configuration
// error, never a per-request branch.
func New(cfg *config.Config) (Client, error) {
	switch cfg.BackendType {
	case config.BackendLlamaCpp:
		return NewLlamaCppClient(cfg.BackendURL), nil
	case config.BackendOllama:
		return NewOllamaClient(cfg.BackendURL, cfg.Model), nil
	case config.BackendOpenAI:
		return NewOpenAIClient(cfg.BackendURL, cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %q", cfg.BackendType)
	}
}
