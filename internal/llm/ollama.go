package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// OllamaClient speaks the ollama chat protocol: structured system/user
// messages, server-side turn boundaries, no usage reporting.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient returns a client for an ollama server.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Generate sends a non-streaming chat call. The server handles turn
// boundaries, so no client-side stop sequences are passed. Token usage is
// unavailable on this protocol and reported as 0.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (CompletionResult, error) {
	body := ollamaChatRequest{
		Model: c.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"top_p":       req.TopP,
			"num_predict": req.MaxTokens,
		},
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to encode chat request")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CompletionResult{}, connError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return CompletionResult{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to read chat response")
	}

	var response ollamaChatResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to decode chat response")
	}

	return CompletionResult{Text: strings.TrimSpace(response.Message.Content)}, nil
}

// Ping lists the installed models as a cheap reachability probe.
func (c *OllamaClient) Ping(ctx context.Context) error {
	return pingURL(ctx, c.httpClient, c.baseURL+"/api/tags")
}
