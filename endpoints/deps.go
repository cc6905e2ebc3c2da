// Package endpoints implements the HTTP surface of the service. Handlers are
// constructors over a shared Dependencies struct so tests can substitute
// fakes for the store and the generation backend.
package endpoints

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/config"
	"github.com/resumecast/resume-chat-service/internal/analytics"
	"github.com/resumecast/resume-chat-service/internal/grounding"
	"github.com/resumecast/resume-chat-service/internal/llm"
	"github.com/resumecast/resume-chat-service/internal/store"
)

// ContextLoader resolves a slug to its grounding context.
type ContextLoader interface {
	Load(ctx context.Context, slug string) (grounding.Grounding, error)
}

// HistoryStore reads and appends conversation turns.
type HistoryStore interface {
	Turns(ctx context.Context, resumeID, conversationID string, limit int) ([]store.Turn, error)
	AppendTurn(ctx context.Context, resumeID, conversationID, question, answer string) error
}

// InterestStore records recruiter contact requests.
type InterestStore interface {
	InsertRecruiterInterest(ctx context.Context, resumeID, name, email, company, message string) error
}

// InteractionRecorder is the fire-and-forget analytics sink.
type InteractionRecorder interface {
	Record(in analytics.Interaction)
}

// EmbeddingGateway is the pass-through to the backend embedding endpoint.
type EmbeddingGateway interface {
	Embed(ctx context.Context, text, model string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string, model string) (llm.BatchEmbedding, error)
	Model(requested string) string
}

// StorePinger reports store reachability for health checks.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the pipeline components into the HTTP handlers.
type Dependencies struct {
	Config   *config.Config
	Loader   ContextLoader
	History  HistoryStore
	Interest InterestStore
	Recorder InteractionRecorder
	LLM      llm.Client
	Embedder EmbeddingGateway
	DB       StorePinger
	Snapshot *ContextSnapshot
}

// ContextSnapshot holds the last-loaded grounding text for diagnostics. It
// is never consulted when answering; every chat request resolves its context
// fresh.
type ContextSnapshot struct {
	mu   sync.RWMutex
	text string
}

// Get returns the snapshot text.
func (s *ContextSnapshot) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Set replaces the snapshot text.
func (s *ContextSnapshot) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// backendErrorStatus maps a generation/embedding failure onto the response
// taxonomy: unreachable backend, backend timeout, or generic internal error.
// Internal detail stays in the server log only.
func backendErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Generation backend timed out"
	case errors.Is(err, llm.ErrBackendUnreachable):
		return http.StatusServiceUnavailable, "Generation backend unavailable"
	default:
		return http.StatusInternalServerError, "Failed to generate response"
	}
}
