package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// MaxBatchSize caps one batch embedding call. Exceeding it is a client
// error, not a partial-success attempt.
const MaxBatchSize = 100

// batchConcurrency bounds parallel backend calls within one batch.
const batchConcurrency = 8

// Embedder is a thin pass-through to the backend's embedding endpoint
// (ollama wire shape).
type Embedder struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// NewEmbedder returns an embedding gateway for the given backend.
func NewEmbedder(baseURL, defaultModel string) *Embedder {
	return &Embedder{
		baseURL:      strings.TrimRight(baseURL, "/"),
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
	}
}

// BatchEmbedding is the result of one batch call. Embeddings holds one entry
// per input text, nil where the text was empty or its backend call failed.
type BatchEmbedding struct {
	Embeddings [][]float64
	Dimensions int
	Successful int
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Model resolves the model identifier for a request, falling back to the
// configured default.
func (e *Embedder) Model(requested string) string {
	if requested != "" {
		return requested
	}
	return e.defaultModel
}

// Embed generates an embedding vector for one text.
func (e *Embedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	body := embedRequest{Model: e.Model(model), Prompt: text}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode embedding request")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, connError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedding response")
	}

	var response embedResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, errors.Wrap(err, "failed to decode embedding response")
	}
	return response.Embedding, nil
}

// EmbedBatch embeds each text independently. Empty texts and failed calls
// yield nil entries rather than failing the batch; Dimensions comes from the
// first successful vector.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string, model string) (BatchEmbedding, error) {
	if len(texts) == 0 {
		return BatchEmbedding{}, errors.New("texts must not be empty")
	}
	if len(texts) > MaxBatchSize {
		return BatchEmbedding{}, errors.Errorf("batch size %d exceeds maximum of %d", len(texts), MaxBatchSize)
	}

	result := BatchEmbedding{Embeddings: make([][]float64, len(texts))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		i, text := i, text
		g.Go(func() error {
			vec, err := e.Embed(gctx, text, model)
			if err != nil {
				// Per-item failures degrade to a nil entry.
				return nil
			}
			result.Embeddings[i] = vec
			return nil
		})
	}
	_ = g.Wait()

	for _, vec := range result.Embeddings {
		if vec != nil {
			result.Successful++
			if result.Dimensions == 0 {
				result.Dimensions = len(vec)
			}
		}
	}
	return result, nil
}
