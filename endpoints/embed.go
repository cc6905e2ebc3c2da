package endpoints

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/resumecast/resume-chat-service/internal/llm"
)

type embedRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type embedResponse struct {
	Embedding  []float64 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
	Model      string    `json:"model"`
}

type embedBatchRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model"`
}

type embedBatchResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Dimensions int         `json:"dimensions"`
	Count      int         `json:"count"`
	Successful int         `json:"successful"`
	Model      string      `json:"model"`
}

// EmbedHandler converts a single text into an embedding vector.
func EmbedHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "Text is required")
			return
		}

		model := deps.Embedder.Model(req.Model)
		vec, err := deps.Embedder.Embed(r.Context(), req.Text, model)
		if err != nil {
			log.Printf("Embedding failed: %v", err)
			status, msg := backendErrorStatus(err)
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, embedResponse{
			Embedding:  vec,
			Dimensions: len(vec),
			Model:      model,
		})
	}
}

// EmbedBatchHandler embeds up to llm.MaxBatchSize texts in one call. Indexes
// are preserved: a text that fails or is empty yields a nil entry rather than
// shifting the rest.
func EmbedBatchHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embedBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if len(req.Texts) == 0 {
			writeError(w, http.StatusBadRequest, "Texts array is required")
			return
		}
		if len(req.Texts) > llm.MaxBatchSize {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Batch size must be %d or fewer", llm.MaxBatchSize))
			return
		}

		model := deps.Embedder.Model(req.Model)
		batch, err := deps.Embedder.EmbedBatch(r.Context(), req.Texts, model)
		if err != nil {
			log.Printf("Batch embedding failed: %v", err)
			status, msg := backendErrorStatus(err)
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, embedBatchResponse{
			Embeddings: batch.Embeddings,
			Dimensions: batch.Dimensions,
			Count:      len(batch.Embeddings),
			Successful: batch.Successful,
			Model:      model,
		})
	}
}
