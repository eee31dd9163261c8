package llm

import (
	"context"
	"strings"
	"time"

	"github.com/shonenloop/story-api/internal/logger"
)

// ProviderSource resolves a model identifier to a provider
type ProviderSource interface {
	ProviderFor(ctx context.Context, model string) (Provider, error)
}

// FallbackRecorder receives an event each time the driver skips a model
// and advances to the next one
type FallbackRecorder interface {
	RecordModelFallback(ctx context.Context, fromModel, toModel, reason string)
}

// FallbackDriver attempts generation against an ordered list of model
// identifiers. Availability failures (model missing, unsupported, empty
// output) advance to the next model; account-level failures (credentials,
// quota, billing) stop the whole attempt immediately. A model is never
// retried once it has failed.
type FallbackDriver struct {
	source   ProviderSource
	models   []string
	timeout  time.Duration
	recorder FallbackRecorder
}

// NewFallbackDriver creates a driver over the ordered model list.
// timeout bounds each individual invocation; zero disables the bound.
func NewFallbackDriver(source ProviderSource, models []string, timeout time.Duration) *FallbackDriver {
	return &FallbackDriver{
		source:  source,
		models:  models,
		timeout: timeout,
	}
}

// SetRecorder attaches a metrics sink for fallback events
func (d *FallbackDriver) SetRecorder(recorder FallbackRecorder) {
	d.recorder = recorder
}

func (d *FallbackDriver) recordFallback(ctx context.Context, index int, reason string) {
	if d.recorder == nil || index+1 >= len(d.models) {
		return
	}
	d.recorder.RecordModelFallback(ctx, d.models[index], d.models[index+1], reason)
}

// Models returns the configured model list in fallback order
func (d *FallbackDriver) Models() []string {
	return d.models
}

// Generate runs the prompt against the model list and returns the first
// non-empty output. The returned error always carries a taxonomy category.
func (d *FallbackDriver) Generate(ctx context.Context, promptText string) (*Result, error) {
	var lastErr error
	attempted := make([]string, 0, len(d.models))

	for i, model := range d.models {
		attempted = append(attempted, model)

		provider, err := d.source.ProviderFor(ctx, model)
		if err != nil {
			// Credential/config failures are account-level, not model-level
			return nil, err
		}

		result, err := d.invokeWithTimeout(ctx, provider, model, promptText)
		if err != nil {
			category := ClassifyProviderError(err)
			switch category {
			case CategoryModelUnavailable:
				logger.Warn("Model unavailable, falling back", logger.Fields{
					"model":    model,
					"provider": provider.Name(),
					"error":    err.Error(),
				})
				d.recordFallback(ctx, i, string(CategoryModelUnavailable))
				lastErr = err
				continue
			case CategoryUnauthorized:
				return nil, NewError(CategoryUnauthorized,
					"The "+provider.Name()+" API key is invalid or unauthorized. Check your API key configuration", err)
			case CategoryQuotaExhausted:
				return nil, NewError(CategoryQuotaExhausted,
					"FREE TIER LIMIT REACHED: the free tier quota is exhausted. Please wait until it resets (usually daily)", err)
			case CategoryBillingDisabled:
				return nil, NewError(CategoryBillingDisabled,
					"FREE TIER ONLY: billing is not enabled and the free quota may be exhausted", err)
			default:
				return nil, NewError(CategoryUnknown, "Generation failed", err)
			}
		}

		if strings.TrimSpace(result.Text) == "" {
			// No output is an availability failure: move on
			logger.Warn("Model returned empty output, falling back", logger.Fields{
				"model":    model,
				"provider": provider.Name(),
			})
			d.recordFallback(ctx, i, "empty_output")
			lastErr = NewError(CategoryModelUnavailable, "model "+model+" returned no output text", nil)
			continue
		}

		return result, nil
	}

	return nil, NewError(CategoryModelUnavailable,
		"No available models. Tried: "+strings.Join(attempted, ", "), lastErr)
}

func (d *FallbackDriver) invokeWithTimeout(
	ctx context.Context, provider Provider, model, promptText string,
) (*Result, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return provider.Invoke(ctx, model, promptText)
}
