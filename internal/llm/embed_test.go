package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// embedServer answers /api/embeddings with a fixed-size vector and records
// the prompts it saw.
func embedServer(t *testing.T, dims int, fail map[string]bool) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var prompts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		mu.Lock()
		prompts = append(prompts, req.Prompt)
		mu.Unlock()

		if fail[req.Prompt] {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(embedResponse{Embedding: make([]float64, dims)})
	}))
	return srv, &prompts
}

func TestEmbed(t *testing.T) {
	srv, _ := embedServer(t, 768, nil)
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text")
	vec, err := e.Embed(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vec) != 768 {
		t.Errorf("vector length = %d, want 768", len(vec))
	}
}

func TestEmbedderModelFallback(t *testing.T) {
	e := NewEmbedder("http://localhost", "nomic-embed-text")
	if got := e.Model(""); got != "nomic-embed-text" {
		t.Errorf("Model(\"\") = %q", got)
	}
	if got := e.Model("custom"); got != "custom" {
		t.Errorf("Model(custom) = %q", got)
	}
}

func TestEmbedBatch(t *testing.T) {
	srv, prompts := embedServer(t, 4, nil)
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text")
	batch, err := e.EmbedBatch(context.Background(), []string{"a", "  ", "c"}, "")
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}

	// Index alignment: the blank text holds its slot as nil.
	if len(batch.Embeddings) != 3 {
		t.Fatalf("embeddings length = %d, want 3", len(batch.Embeddings))
	}
	if batch.Embeddings[0] == nil || batch.Embeddings[2] == nil {
		t.Error("non-empty texts should have vectors")
	}
	if batch.Embeddings[1] != nil {
		t.Error("blank text should yield a nil entry")
	}
	if batch.Successful != 2 {
		t.Errorf("successful = %d, want 2", batch.Successful)
	}
	if batch.Dimensions != 4 {
		t.Errorf("dimensions = %d, want 4", batch.Dimensions)
	}
	if len(*prompts) != 2 {
		t.Errorf("backend saw %d prompts, want 2", len(*prompts))
	}
}

func TestEmbedBatchPartialFailure(t *testing.T) {
	srv, _ := embedServer(t, 4, map[string]bool{"bad": true})
	defer srv.Close()

	e := NewEmbedder(srv.URL, "nomic-embed-text")
	batch, err := e.EmbedBatch(context.Background(), []string{"good", "bad"}, "")
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}
	if batch.Embeddings[0] == nil || batch.Embeddings[1] != nil {
		t.Errorf("failure should degrade to nil entry: %v", batch.Embeddings)
	}
	if batch.Successful != 1 {
		t.Errorf("successful = %d, want 1", batch.Successful)
	}
}

func TestEmbedBatchLimits(t *testing.T) {
	e := NewEmbedder("http://localhost", "nomic-embed-text")

	if _, err := e.EmbedBatch(context.Background(), nil, ""); err == nil {
		t.Error("empty batch should fail")
	}

	texts := make([]string, MaxBatchSize+1)
	for i := range texts {
		texts[i] = "t"
	}
	if _, err := e.EmbedBatch(context.Background(), texts, ""); err == nil {
		t.Error("oversized batch should fail")
	}
}
