// Package llm sends the study-recommendation prompts to a hosted chat model.
package llm

import "context"

// Provider completes a single-turn prompt.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model name sent to the backend.
	ModelID() string
}

// Request is one system prompt plus one user prompt.
type Request struct {
	System string
	Prompt string

	// MaxTokens caps the answer. Zero selects DefaultMaxTokens.
	MaxTokens int

	// Temperature of zero leaves the backend default.
	Temperature float64
}

// DefaultMaxTokens is used when a Request leaves MaxTokens unset.
const DefaultMaxTokens = 1024

// Response is the model's answer.
type Response struct {
	Text  string
	Model string

	// Truncated is set when the model stopped at the token cap.
	Truncated bool

	InputTokens  int
	OutputTokens int
}

// UserPrompt builds a Request with the default limits.
func UserPrompt(system, prompt string) Request {
	return Request{System: system, Prompt: prompt}
}

func (r Request) tokenCap() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}
