package llm

import (
	"context"
)

// Provider defines the interface for LLM providers.
// Invoke sends one prompt to one model and returns the raw text output;
// the caller owns extraction, validation and fallback.
type Provider interface {
	// Invoke generates text with the given model. An empty Text on a nil
	// error means the model produced no usable output.
	Invoke(ctx context.Context, model, promptText string) (*Result, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// Result contains the raw output of one model invocation
type Result struct {
	Text  string
	Model string
	Usage *TokenUsage
}

// TokenUsage carries token counts for logging and metrics
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
