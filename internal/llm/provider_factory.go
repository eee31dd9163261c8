package llm

import (
	"context"
	"strings"
	"sync"
)

// ProviderFactory creates providers based on model name.
// Model identifiers route to vendors by prefix: gemini-* to Gemini,
// gpt-* to OpenAI. Providers are built lazily and reused.
type ProviderFactory struct {
	geminiAPIKey string
	openaiAPIKey string

	mu     sync.Mutex
	gemini *GeminiProvider
	openai *OpenAIProvider
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(geminiAPIKey, openaiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		geminiAPIKey: geminiAPIKey,
		openaiAPIKey: openaiAPIKey,
	}
}

// ProviderFor returns the provider responsible for the given model.
// A missing credential is an account-level failure, reported as
// CategoryUnauthorized so callers never fall back past it.
func (f *ProviderFactory) ProviderFor(ctx context.Context, model string) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(strings.ToLower(model), "gpt-") {
		if f.openaiAPIKey == "" {
			return nil, NewError(CategoryUnauthorized,
				"OPENAI_API_KEY is not set but an OpenAI model is configured", nil)
		}
		if f.openai == nil {
			f.openai = NewOpenAIProvider(f.openaiAPIKey)
		}
		return f.openai, nil
	}

	// Everything else goes to Gemini, the default vendor
	if f.geminiAPIKey == "" {
		return nil, NewError(CategoryUnauthorized,
			"GEMINI_API_KEY is not set. Add it to .env or the environment", nil)
	}
	if f.gemini == nil {
		provider, err := NewGeminiProvider(ctx, f.geminiAPIKey)
		if err != nil {
			return nil, NewError(CategoryUnauthorized,
				"Failed to initialize Gemini client", err)
		}
		f.gemini = provider
	}
	return f.gemini, nil
}
