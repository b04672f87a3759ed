// Package llm abstracts the language-model backends used to write the
// plain-English report commentary.
package llm

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest holds one commentary request. The digest sends a
// single user prompt; multi-turn chat is out of scope here.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

// CompletionResponse holds the response from the LLM
type CompletionResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}
