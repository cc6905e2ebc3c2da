package endpoints

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/resumecast/resume-chat-service/internal/llm"
	"github.com/resumecast/resume-chat-service/internal/prompt"
	"github.com/resumecast/resume-chat-service/utils"
)

// maxImproveLength bounds one text-improvement request.
const maxImproveLength = 2000

type improveRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

type improveResponse struct {
	Original   string `json:"original"`
	Improved   string `json:"improved"`
	TokensUsed int    `json:"tokens_used"`
}

// ImproveTextHandler rewrites a snippet of resume text through the
// lower-temperature rewrite flow and the shared post-processor.
func ImproveTextHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req improveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		req.Text = strings.TrimSpace(req.Text)
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "Text is required")
			return
		}
		if len(req.Text) > maxImproveLength {
			writeError(w, http.StatusBadRequest, "Text must be 2000 characters or fewer")
			return
		}

		system, user := prompt.Improve(req.Text, strings.TrimSpace(req.Context))
		result, err := deps.LLM.Generate(r.Context(), llm.RewriteRequest(system, user))
		if err != nil {
			log.Printf("Text improvement failed: %v", err)
			status, msg := backendErrorStatus(err)
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, improveResponse{
			Original:   req.Text,
			Improved:   utils.CleanGeneratedText(result.Text),
			TokensUsed: result.Tokens,
		})
	}
}
