package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rne-assistant/internal/contextutil"
)

// Generation defaults. A low temperature keeps answers close to the
// supplied context.
const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 1024
	DefaultMaxRetries  = 2
	DefaultBackoff     = 500 * time.Millisecond
)

// Client is a client for an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Backoff    time.Duration
	client     *http.Client
}

// NewClient creates a new LLM client. A non-positive maxRetries or backoff
// falls back to the defaults; timeout bounds each individual attempt.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, maxRetries int, backoff time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: maxRetries,
		Backoff:    backoff,
		client:     &http.Client{Timeout: timeout},
	}
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Chat sends a chat completion request, retrying transient failures with a
// linear backoff. After the last attempt it returns an error wrapping
// ErrUnavailable.
func (c *Client) Chat(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.WarnContext(ctx, "retrying chat completion", "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(time.Duration(attempt) * c.Backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		reply, err := c.chatOnce(ctx, messages, params)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func (c *Client) chatOnce(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	model := params.Model
	if model == "" {
		model = c.Model
	}
	temperature := params.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	payload := ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// GenerateAnswer produces a grounded answer to the question from the
// formatted retrieval context, in the given language.
func (c *Client) GenerateAnswer(ctx context.Context, language, contextText, question string) (string, error) {
	messages := []Message{
		{Role: "system", Content: SystemPrompt(language)},
		{Role: "user", Content: userMessage(contextText, question)},
	}
	return c.Chat(ctx, messages, ChatParams{})
}
