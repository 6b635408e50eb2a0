// Package llm defines the contract with the external generation model and
// provides OpenAI and Ollama backed implementations. The pipeline invokes a
// provider only on the factual route, and only with assembled context — a
// raw user query from any other route never reaches the model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyOutput is returned when the model answers with no usable text.
// Callers treat it like any other generation failure: retry then fall back.
var ErrEmptyOutput = errors.New("generation returned empty output")

// Provider is the external generation collaborator.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate produces an answer from system instructions, assembled
	// context, and the user's query text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request carries one generation call's inputs.
type Request struct {
	// System is the instruction block enforcing the output contract.
	System string

	// Context is the assembled document context the answer must come from.
	Context string

	// Query is the user's question text.
	Query string

	// Model overrides the configured model when set.
	Model string

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls sampling (kept low for factual output).
	Temperature float32
}

// Response is the model's raw output before validation.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds generation provider configuration.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// BuildUserPrompt formats the context and query into the user turn sent to
// the model. The system instructions travel separately.
func BuildUserPrompt(contextText, query string) string {
	return fmt.Sprintf(`Context:
%s

User Query: %s

Based on the context above, provide a factual answer to the user's query. Follow all the rules in the system prompt.`, contextText, query)
}
