package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// LlamaCppClient speaks the llama.cpp server completion protocol: a single
// merged prompt in, plain text plus a predicted-token count out.
type LlamaCppClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLlamaCppClient returns a client for a llama.cpp server.
func NewLlamaCppClient(baseURL string) *LlamaCppClient {
	return &LlamaCppClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

type llamaCppRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	Stop        []string `json:"stop,omitempty"`
}

type llamaCppResponse struct {
	Content         string `json:"content"`
	TokensPredicted int    `json:"tokens_predicted"`
}

// Generate merges the system block and user turn into one prompt and calls
// the completion endpoint. llama.cpp has no message roles, so turn boundaries
// are enforced with stop sequences.
func (c *LlamaCppClient) Generate(ctx context.Context, req GenerateRequest) (CompletionResult, error) {
	prompt := req.System + "\n\nUser Question: " + req.User + "\n\nProfessional Answer:"

	body := llamaCppRequest{
		Prompt:      prompt,
		NPredict:    req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		Stop:        req.Stop,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to encode completion request")
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewBuffer(jsonData))
	if err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to build completion request")
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
		return CompletionResult{}, errors.Wrap(err, "failed to read completion response")
	}

	var response llamaCppResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return CompletionResult{}, errors.Wrap(err, "failed to decode completion response")
	}

	return CompletionResult{
		Text:   strings.TrimSpace(response.Content),
		Tokens: response.TokensPredicted,
	}, nil
}

// Ping checks the llama.cpp health endpoint.
func (c *LlamaCppClient) Ping(ctx context.Context) error {
	return pingURL(ctx, c.httpClient, c.baseURL+"/health")
}

// pingURL is the shared reachability probe: a GET that must answer 200
// within a short deadline.
func pingURL(ctx context.Context, client *http.Client, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build probe request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return connError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
