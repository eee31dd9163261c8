package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Category is the closed taxonomy every failure maps into.
// Provider errors arrive loosely typed; ClassifyProviderError folds them
// into these categories with an explicit priority order.
type Category string

const (
	CategoryRateLimited      Category = "rate_limited"
	CategoryInvalidInput     Category = "invalid_input"
	CategoryUnauthorized     Category = "unauthorized"
	CategoryQuotaExhausted   Category = "quota_exhausted"
	CategoryBillingDisabled  Category = "billing_disabled"
	CategoryModelUnavailable Category = "model_unavailable"
	CategoryMalformedOutput  Category = "malformed_output"
	CategorySchemaViolation  Category = "schema_violation"
	CategoryUnknown          Category = "unknown"
)

// Error is a categorized failure with a human-readable message
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a categorized error wrapping an underlying cause
func NewError(category Category, message string, err error) *Error {
	return &Error{Category: category, Message: message, Err: err}
}

// CategoryOf extracts the category from an error chain,
// or CategoryUnknown when the error carries none.
func CategoryOf(err error) Category {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Category
	}
	return CategoryUnknown
}

// MessageOf returns the human-readable message from a categorized error,
// falling back to the plain error text.
func MessageOf(err error) string {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// ClassifyProviderError maps a provider error into the taxonomy.
// Priority order: HTTP status code first, then the named status field,
// then message substrings. Anything unrecognized stays CategoryUnknown
// rather than being guessed at.
func ClassifyProviderError(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	code, status := providerErrorShape(err)

	switch code {
	case http.StatusNotFound:
		return CategoryModelUnavailable
	case http.StatusTooManyRequests:
		return CategoryQuotaExhausted
	case http.StatusUnauthorized:
		return CategoryUnauthorized
	case http.StatusForbidden:
		// PERMISSION_DENIED covers both bad credentials and disabled
		// billing; the message decides which
		if c := classifyMessage(err.Error()); c == CategoryBillingDisabled {
			return c
		}
		return CategoryUnauthorized
	}

	switch status {
	case "NOT_FOUND", "UNIMPLEMENTED":
		return CategoryModelUnavailable
	case "RESOURCE_EXHAUSTED":
		return CategoryQuotaExhausted
	case "UNAUTHENTICATED":
		return CategoryUnauthorized
	case "PERMISSION_DENIED":
		if c := classifyMessage(err.Error()); c == CategoryBillingDisabled {
			return c
		}
		return CategoryUnauthorized
	}

	return classifyMessage(err.Error())
}

// providerErrorShape pulls the status code and named status out of the
// provider SDK error types, if present anywhere in the chain.
func providerErrorShape(err error) (code int, status string) {
	var gerr genai.APIError
	if errors.As(err, &gerr) {
		return gerr.Code, gerr.Status
	}

	var oerr *openai.Error
	if errors.As(err, &oerr) {
		return oerr.StatusCode, ""
	}

	return 0, ""
}

func classifyMessage(message string) Category {
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, "billing", "payment", "billing_not_enabled"):
		return CategoryBillingDisabled
	case containsAny(msg, "quota", "rate limit", "resource_exhausted", "resource exhausted"):
		return CategoryQuotaExhausted
	case containsAny(msg, "api key", "api_key", "unauthorized", "unauthenticated", "permission denied", "permission_denied", "credential"):
		return CategoryUnauthorized
	case containsAny(msg, "404", "not found", "not supported"):
		return CategoryModelUnavailable
	}

	return CategoryUnknown
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
