package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/resumecast/resume-chat-service/internal/llm"
)

func TestEmbedHandler(t *testing.T) {
	deps, _, _, _ := testDeps()
	deps.Embedder = &fakeEmbedder{vec: []float64{0.1, 0.2, 0.3}}
	handler := EmbedHandler(deps)

	rec := postJSON(t, handler, "/api/embed", `{"text": "hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp embedResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Embedding) != 3 || resp.Dimensions != 3 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Model != "nomic-embed-text" {
		t.Errorf("model = %q, want the default", resp.Model)
	}
}

func TestEmbedHandlerEmptyText(t *testing.T) {
	deps, _, _, _ := testDeps()
	handler := EmbedHandler(deps)

	rec := postJSON(t, handler, "/api/embed", `{"text": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEmbedBatchHandler(t *testing.T) {
	deps, _, _, _ := testDeps()
	deps.Embedder = &fakeEmbedder{batch: llm.BatchEmbedding{
		Embeddings: [][]float64{{0.1, 0.2}, nil, {0.3, 0.4}},
		Dimensions: 2,
		Successful: 2,
	}}
	handler := EmbedBatchHandler(deps)

	rec := postJSON(t, handler, "/api/embed/batch", `{"texts": ["a", "", "c"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp embedBatchResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3 (index alignment)", resp.Count)
	}
	if resp.Successful != 2 {
		t.Errorf("successful = %d, want 2", resp.Successful)
	}
	if resp.Embeddings[1] != nil {
		t.Error("failed slot should stay nil")
	}
	if resp.Dimensions != 2 {
		t.Errorf("dimensions = %d", resp.Dimensions)
	}
}

func TestEmbedBatchHandlerLimits(t *testing.T) {
	deps, _, _, _ := testDeps()
	handler := EmbedBatchHandler(deps)

	rec := postJSON(t, handler, "/api/embed/batch", `{"texts": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty batch: status = %d, want 400", rec.Code)
	}

	texts := make([]string, llm.MaxBatchSize+1)
	for i := range texts {
		texts[i] = fmt.Sprintf("%q", "t")
	}
	body := `{"texts": [` + strings.Join(texts, ",") + `]}`
	rec = postJSON(t, handler, "/api/embed/batch", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: status = %d, want 400", rec.Code)
	}
}
