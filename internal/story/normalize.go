package story

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shonenloop/story-api/internal/llm"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?[ \t]*\n?")
	fenceCloseRe = regexp.MustCompile("\n?[ \t]*```$")
)

// Normalize extracts the first well-formed JSON object from free-form model
// output. Models preface or trail the JSON with prose and code fences often
// enough that this has to be tolerant: strip fences, then take the span from
// the first '{' to the last '}', then fall back to parsing the whole text.
func Normalize(raw string) (map[string]any, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
		cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")

	var lastErr error
	if start >= 0 && end > start {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err == nil {
			return parsed, nil
		} else {
			lastErr = err
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return parsed, nil
	} else if lastErr == nil {
		lastErr = err
	}

	return nil, llm.NewError(llm.CategoryMalformedOutput,
		"No JSON object could be extracted from the model output", lastErr)
}
