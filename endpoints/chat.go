package endpoints

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/resumecast/resume-chat-service/internal/analytics"
	"github.com/resumecast/resume-chat-service/internal/llm"
	"github.com/resumecast/resume-chat-service/internal/policy"
	"github.com/resumecast/resume-chat-service/internal/prompt"
	"github.com/resumecast/resume-chat-service/internal/store"
	"github.com/resumecast/resume-chat-service/middleware"
	"github.com/resumecast/resume-chat-service/utils"
)

type chatRequest struct {
	Message        string `json:"message"`
	Slug           string `json:"slug"`
	ConversationID string `json:"conversationId"`
}

type chatResponse struct {
	Response       string `json:"response"`
	TokensUsed     int    `json:"tokens_used"`
	Slug           string `json:"slug"`
	ConversationID string `json:"conversationId"`
}

// ChatHandler runs the full answer-grounding pipeline for one question:
// context load, policy composition, history replay, prompt assembly,
// generation, post-processing, and fire-and-forget interaction logging.
func ChatHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		req.Message = strings.TrimSpace(req.Message)
		if req.Message == "" {
			writeError(w, http.StatusBadRequest, "Message is required")
			return
		}
		req.Slug = strings.TrimSpace(req.Slug)
		if req.Slug == "" {
			writeError(w, http.StatusBadRequest, "Slug is required")
			return
		}

		ctx := r.Context()

		g, err := deps.Loader.Load(ctx, req.Slug)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Resume not found")
			return
		}
		if err != nil {
			log.Printf("Context load failed for %q: %v", req.Slug, err)
			writeError(w, http.StatusServiceUnavailable, "Resume context unavailable")
			return
		}
		// The snapshot feeds an unauthenticated diagnostics route, so it
		// only ever holds the public content, never the private addendum.
		deps.Snapshot.Set(g.PublicText)

		policyText, err := policy.Compose(g.Persona)
		if err != nil {
			log.Printf("Policy composition failed for %q: %v", req.Slug, err)
			writeError(w, http.StatusInternalServerError, "Failed to process request")
			return
		}

		conversationID := strings.TrimSpace(req.ConversationID)
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		// Missing history degrades to a fresh conversation, never an error.
		history, err := deps.History.Turns(ctx, g.ResumeID, conversationID, prompt.HistoryWindow)
		if err != nil {
			log.Printf("History load failed for conversation %q: %v", conversationID, err)
			history = nil
		}

		system, user := prompt.Assemble(prompt.Input{
			Persona:  g.Persona,
			Policy:   policyText,
			Context:  g.FullText,
			History:  history,
			Question: req.Message,
		})

		log.Printf("Generating response for: %s", utils.Truncate(req.Message, 100))
		result, err := deps.LLM.Generate(ctx, llm.ChatRequest(system, user))
		if err != nil {
			log.Printf("Generation failed for %q: %v", req.Slug, err)
			status, msg := backendErrorStatus(err)
			writeError(w, status, msg)
			return
		}

		answer := utils.CleanGeneratedText(result.Text)
		log.Printf("Generated response: %s", utils.Truncate(answer, 100))

		// History append is best-effort; a lost turn costs context, not the
		// answer. Same-conversation interleaving is ordered by the store's
		// creation time, not request arrival.
		if err := deps.History.AppendTurn(ctx, g.ResumeID, conversationID, req.Message, answer); err != nil {
			log.Printf("Failed to append conversation turn: %v", err)
		}

		go deps.Recorder.Record(analytics.Interaction{
			Slug:           req.Slug,
			Question:       req.Message,
			Answer:         answer,
			ResponseTimeMs: time.Since(started).Milliseconds(),
			ConversationID: conversationID,
			IPAddress:      middleware.ClientIP(r),
			UserAgent:      r.UserAgent(),
			Referrer:       r.Referer(),
		})

		writeJSON(w, http.StatusOK, chatResponse{
			Response:       answer,
			TokensUsed:     result.Tokens,
			Slug:           req.Slug,
			ConversationID: conversationID,
		})
	}
}
