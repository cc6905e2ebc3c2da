package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// OpenAIClient speaks any OpenAI-compatible chat completion server (LocalAI,
// vLLM, llama.cpp in OpenAI mode, or the hosted API).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient returns a client for an OpenAI-compatible server. Local
// servers usually ignore the API key but the protocol requires one.
func NewOpenAIClient(baseURL, apiKey, model string) *OpenAIClient {
	client := openai.NewClient(
		option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/v1"),
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: DefaultTimeout}),
		option.WithMaxRetries(0),
	)
	return &OpenAIClient{client: &client, model: model}
}

// Generate performs a chat completion and reports usage from the response.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return CompletionResult{}, classifyOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return CompletionResult{}, errors.New("backend returned no choices")
	}

	return CompletionResult{
		Text:   strings.TrimSpace(completion.Choices[0].Message.Content),
		Tokens: int(completion.Usage.TotalTokens),
	}, nil
}

// Ping lists models as the standard OpenAI-protocol reachability probe.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := c.client.Models.List(ctx); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

// classifyOpenAIError maps SDK errors onto the shared taxonomy: API errors
// carry a status code, everything else is a transport failure.
func classifyOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &StatusError{Code: apiErr.StatusCode, Body: apiErr.Message}
	}
	return connError(err)
}
