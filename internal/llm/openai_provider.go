package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/shonenloop/story-api/internal/logger"
)

const providerNameOpenAI = "openai"

// OpenAIProvider implements the Provider interface using OpenAI's Responses API
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Invoke generates one response with the given OpenAI model
func (p *OpenAIProvider) Invoke(ctx context.Context, model, promptText string) (*Result, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "openai.invoke")
	defer transaction.Finish()
	transaction.SetTag("model", model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(promptText),
		},
	}

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		logger.Warn("OpenAI request failed", logger.Fields{
			"model":       model,
			"duration_ms": time.Since(startTime).Milliseconds(),
			"error":       err.Error(),
		})
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	invocation := &Result{
		Text:  resp.OutputText(),
		Model: model,
		Usage: &TokenUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}

	transaction.SetTag("success", "true")
	logger.Info("OpenAI request completed", logger.Fields{
		"model":         model,
		"duration_ms":   time.Since(startTime).Milliseconds(),
		"output_length": len(invocation.Text),
	})

	return invocation, nil
}
