package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassifyProviderErrorStatusCodeFirst(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{
			name: "404 is availability even with quota wording",
			err:  genai.APIError{Code: 404, Message: "model quota page not found"},
			want: CategoryModelUnavailable,
		},
		{
			name: "429 is quota",
			err:  genai.APIError{Code: 429, Message: "slow down"},
			want: CategoryQuotaExhausted,
		},
		{
			name: "401 is unauthorized",
			err:  genai.APIError{Code: 401, Message: "bad key"},
			want: CategoryUnauthorized,
		},
		{
			name: "403 defaults to unauthorized",
			err:  genai.APIError{Code: 403, Message: "permission denied"},
			want: CategoryUnauthorized,
		},
		{
			name: "403 with billing wording is billing",
			err:  genai.APIError{Code: 403, Message: "BILLING_NOT_ENABLED for project"},
			want: CategoryBillingDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProviderError(tt.err))
		})
	}
}

func TestClassifyProviderErrorStatusName(t *testing.T) {
	tests := []struct {
		status string
		want   Category
	}{
		{"NOT_FOUND", CategoryModelUnavailable},
		{"RESOURCE_EXHAUSTED", CategoryQuotaExhausted},
		{"UNAUTHENTICATED", CategoryUnauthorized},
		{"PERMISSION_DENIED", CategoryUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			err := genai.APIError{Status: tt.status, Message: "x"}
			assert.Equal(t, tt.want, ClassifyProviderError(err))
		})
	}
}

func TestClassifyProviderErrorMessageSubstrings(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Category
	}{
		{"not found", "models/gemini-x is not found for API version v1beta", CategoryModelUnavailable},
		{"not supported", "generateContent is not supported", CategoryModelUnavailable},
		{"embedded 404", "unexpected response: 404", CategoryModelUnavailable},
		{"api key", "API key not valid. Please pass a valid API key", CategoryUnauthorized},
		{"quota", "You exceeded your current quota", CategoryQuotaExhausted},
		{"rate limit", "rate limit hit, retry later", CategoryQuotaExhausted},
		{"billing", "enable billing to use this model", CategoryBillingDisabled},
		{"unknown shape", "something odd happened", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyProviderError(errors.New(tt.message)))
		})
	}
}

func TestClassifyProviderErrorFindsWrappedSDKError(t *testing.T) {
	err := fmt.Errorf("gemini request failed: %w", genai.APIError{Code: 404, Message: "nope"})
	assert.Equal(t, CategoryModelUnavailable, ClassifyProviderError(err))
}

func TestCategoryOf(t *testing.T) {
	err := NewError(CategoryQuotaExhausted, "quota gone", errors.New("underlying"))

	assert.Equal(t, CategoryQuotaExhausted, CategoryOf(err))
	assert.Equal(t, CategoryQuotaExhausted, CategoryOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, CategoryUnknown, CategoryOf(errors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	err := NewError(CategoryUnauthorized, "bad credential", errors.New("401"))

	assert.Equal(t, "bad credential", MessageOf(err))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
