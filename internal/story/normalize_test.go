package story

import (
	"testing"

	"github.com/shonenloop/story-api/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlainJSON(t *testing.T) {
	parsed, err := Normalize(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, float64(1), parsed["a"])
}

func TestNormalizeStripsCodeFence(t *testing.T) {
	parsed, err := Normalize("```json\n{\"a\":1}\n```")
	require.NoError(t, err)
	assert.Equal(t, float64(1), parsed["a"])
}

func TestNormalizeStripsFenceWithoutLanguageTag(t *testing.T) {
	parsed, err := Normalize("```\n{\"a\":1}\n```")
	require.NoError(t, err)
	assert.Equal(t, float64(1), parsed["a"])
}

func TestNormalizeExtractsObjectFromSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the next beat:\n{\"title\": \"The Gate\"}\nHope you enjoy it."
	parsed, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "The Gate", parsed["title"])
}

func TestNormalizeHandlesLeadingProseAndTrailingObject(t *testing.T) {
	raw := "Some explanation first. {\"a\": {\"nested\": true}}"
	parsed, err := Normalize(raw)
	require.NoError(t, err)
	nested, ok := parsed["a"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, nested["nested"])
}

func TestNormalizeTrimsWhitespace(t *testing.T) {
	parsed, err := Normalize("\n\n   {\"a\":1}   \n")
	require.NoError(t, err)
	assert.Equal(t, float64(1), parsed["a"])
}

func TestNormalizeFailsOnNoJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose only", "I could not generate a story this time."},
		{"empty", ""},
		{"broken braces", "{\"a\": }"},
		{"array not object", "[1, 2, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw)
			require.Error(t, err)
			assert.Equal(t, llm.CategoryMalformedOutput, llm.CategoryOf(err))
		})
	}
}
