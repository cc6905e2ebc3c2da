// Package llm routes completion and embedding calls across the supported
// backend protocols (llama.cpp, ollama, OpenAI-compatible) behind one call
// signature. The adapter is selected once at configuration time.
package llm

import (
	"context"
	"time"
)

// Generation defaults shared by every adapter.
const (
	DefaultTimeout = 60 * time.Second

	ChatTemperature    = 0.7
	ChatTopP           = 0.9
	RewriteTemperature = 0.3

	DefaultMaxTokens = 256
)

// CompletionResult is the normalized shape every adapter returns. Tokens is
// best-effort; adapters whose protocol reports no usage return 0.
type CompletionResult struct {
	Text   string
	Tokens int
}

// GenerateRequest carries one completion call. Adapters that speak a single
// merged prompt (llama.cpp) combine System and User themselves; chat-style
// protocols send them as separate messages.
type GenerateRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stop        []string
}

// Client is the protocol-agnostic completion contract.
type Client interface {
	// Generate performs a single completion. Connection failures surface as
	// ErrBackendUnreachable; non-2xx responses as *StatusError.
	Generate(ctx context.Context, req GenerateRequest) (CompletionResult, error)

	// Ping performs a lightweight reachability probe against the backend.
	Ping(ctx context.Context) error
}

// ChatRequest fills in the standard chat-generation parameters.
func ChatRequest(system, user string) GenerateRequest {
	return GenerateRequest{
		System:      system,
		User:        user,
		MaxTokens:   DefaultMaxTokens,
		Temperature: ChatTemperature,
		TopP:        ChatTopP,
		Stop:        []string{"User:", "\n\n"},
	}
}

// RewriteRequest fills in the lower-temperature parameters used by the
// text-improvement flow.
func RewriteRequest(system, user string) GenerateRequest {
	return GenerateRequest{
		System:      system,
		User:        user,
		MaxTokens:   512,
		Temperature: RewriteTemperature,
		TopP:        ChatTopP,
	}
}
