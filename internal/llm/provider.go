// Package llm abstracts the generative model service behind a Provider
// interface with concrete OpenAI and Ollama implementations.
package llm

import "context"

// Provider defines the interface for generative model services.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
