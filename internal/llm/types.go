package llm

import "errors"

// ErrUnavailable marks a provider call that failed after all retries.
// Callers match it with errors.Is and degrade to a localized fallback.
var ErrUnavailable = errors.New("llm provider unavailable")

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}
