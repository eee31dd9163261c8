package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name       string
	invokeFunc func(ctx context.Context, model, promptText string) (*Result, error)
	calls      []string
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Invoke(ctx context.Context, model, promptText string) (*Result, error) {
	m.calls = append(m.calls, model)
	if m.invokeFunc != nil {
		return m.invokeFunc(ctx, model, promptText)
	}
	return &Result{Text: "{}", Model: model}, nil
}

// mockSource routes every model to the same mock provider
type mockSource struct {
	provider Provider
	err      error
}

func (s *mockSource) ProviderFor(_ context.Context, _ string) (Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func TestFallbackFirstModelSucceeds(t *testing.T) {
	mock := &MockProvider{
		name: "mock",
		invokeFunc: func(_ context.Context, model, _ string) (*Result, error) {
			return &Result{Text: `{"ok":true}`, Model: model}, nil
		},
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	result, err := driver.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "m1", result.Model)
	assert.Equal(t, []string{"m1"}, mock.calls)
}

func TestFallbackAdvancesOnAvailabilityFailure(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, model, _ string) (*Result, error) {
		if model == "m1" {
			return nil, genai.APIError{Code: 404, Message: "model not found"}
		}
		return &Result{Text: `{"ok":true}`, Model: model}, nil
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	result, err := driver.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "m2", result.Model)
	// m1 attempted exactly once, never retried
	assert.Equal(t, []string{"m1", "m2"}, mock.calls)
}

func TestFallbackTreatsEmptyOutputAsAvailabilityFailure(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, model, _ string) (*Result, error) {
		if model == "m1" {
			return &Result{Text: "   ", Model: model}, nil
		}
		return &Result{Text: `{"ok":true}`, Model: model}, nil
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	result, err := driver.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "m2", result.Model)
}

func TestFallbackStopsOnAuthorizationFailure(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, _, _ string) (*Result, error) {
		return nil, genai.APIError{Code: 401, Message: "API key not valid"}
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, CategoryUnauthorized, CategoryOf(err))
	// m2 is never attempted: auth failures are account-level
	assert.Equal(t, []string{"m1"}, mock.calls)
}

func TestFallbackStopsOnQuotaFailure(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, _, _ string) (*Result, error) {
		return nil, genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, CategoryQuotaExhausted, CategoryOf(err))
	assert.Equal(t, []string{"m1"}, mock.calls)
}

func TestFallbackStopsOnUnknownFailure(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, _, _ string) (*Result, error) {
		return nil, assert.AnError
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, CategoryUnknown, CategoryOf(err))
	assert.Equal(t, []string{"m1"}, mock.calls)
}

func TestFallbackExhaustionNamesAllModels(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, _, _ string) (*Result, error) {
		return nil, genai.APIError{Code: 404, Message: "not found"}
	}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2", "m3"}, 0)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, CategoryModelUnavailable, CategoryOf(err))
	assert.Contains(t, MessageOf(err), "m1, m2, m3")
	assert.Equal(t, []string{"m1", "m2", "m3"}, mock.calls)
}

// mockRecorder captures fallback events for assertions
type mockRecorder struct {
	events []string
}

func (r *mockRecorder) RecordModelFallback(_ context.Context, fromModel, toModel, reason string) {
	r.events = append(r.events, fromModel+"->"+toModel+":"+reason)
}

func TestFallbackRecordsAdvanceEvents(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, model, _ string) (*Result, error) {
		switch model {
		case "m1":
			return nil, genai.APIError{Code: 404, Message: "model not found"}
		case "m2":
			return &Result{Text: "   ", Model: model}, nil
		default:
			return &Result{Text: `{"ok":true}`, Model: model}, nil
		}
	}
	recorder := &mockRecorder{}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2", "m3"}, 0)
	driver.SetRecorder(recorder)

	result, err := driver.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "m3", result.Model)
	assert.Equal(t, []string{
		"m1->m2:model_unavailable",
		"m2->m3:empty_output",
	}, recorder.events)
}

func TestFallbackDoesNotRecordOnStopOrExhaustion(t *testing.T) {
	mock := &MockProvider{name: "mock"}
	mock.invokeFunc = func(_ context.Context, model, _ string) (*Result, error) {
		if model == "m1" {
			return nil, genai.APIError{Code: 404, Message: "not found"}
		}
		return nil, genai.APIError{Code: 401, Message: "API key not valid"}
	}
	recorder := &mockRecorder{}
	driver := NewFallbackDriver(&mockSource{provider: mock}, []string{"m1", "m2"}, 0)
	driver.SetRecorder(recorder)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	// Only the m1 advance is an event; the auth stop on m2 has no next model
	// to advance to and must not be recorded as a fallback.
	assert.Equal(t, []string{"m1->m2:model_unavailable"}, recorder.events)
}

func TestFallbackPropagatesSourceErrors(t *testing.T) {
	sourceErr := NewError(CategoryUnauthorized, "GEMINI_API_KEY is not set", nil)
	driver := NewFallbackDriver(&mockSource{err: sourceErr}, []string{"m1", "m2"}, 0)

	_, err := driver.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, CategoryUnauthorized, CategoryOf(err))
}
