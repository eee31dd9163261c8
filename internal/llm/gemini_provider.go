package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/shonenloop/story-api/internal/logger"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
)

// GeminiProvider implements the Provider interface using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Invoke generates one response with the given Gemini model
func (p *GeminiProvider) Invoke(ctx context.Context, model, promptText string) (*Result, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "gemini.invoke")
	defer transaction.Finish()
	transaction.SetTag("model", model)
	transaction.SetTag("provider", providerNameGemini)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   StoryResponseSchema(),
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, model, genai.Text(promptText), config)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		logger.Warn("Gemini request failed", logger.Fields{
			"model":       model,
			"duration_ms": time.Since(startTime).Milliseconds(),
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	invocation := &Result{Model: model}

	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil &&
		len(result.Candidates[0].Content.Parts) > 0 {
		invocation.Text = result.Candidates[0].Content.Parts[0].Text
	}

	if result.UsageMetadata != nil {
		invocation.Usage = &TokenUsage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	transaction.SetTag("success", "true")
	logger.Info("Gemini request completed", logger.Fields{
		"model":         model,
		"duration_ms":   time.Since(startTime).Milliseconds(),
		"output_length": len(invocation.Text),
	})

	return invocation, nil
}
