package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugEnv(t *testing.T, cfg *config.Config) map[string]any {
	t.Helper()
	router := gin.New()
	router.GET("/api/debug/env", NewDebugHandler(cfg).Env)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/env", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDebugEnvRedactsKeys(t *testing.T) {
	secret := "AIzaSyFakeKeyValue1234567890"
	cfg := &config.Config{
		Environment:  "development",
		GeminiAPIKey: secret,
		StoryModels:  []string{"gemini-2.5-flash"},
	}

	body := debugEnv(t, cfg)

	gemini := body["geminiKey"].(map[string]any)
	assert.Equal(t, true, gemini["present"])
	assert.Equal(t, float64(len(secret)), gemini["length"])
	assert.Equal(t, "AIza****", gemini["prefix"])

	// The full value must never appear anywhere in the response
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), secret)
}

func TestDebugEnvMissingKey(t *testing.T) {
	body := debugEnv(t, &config.Config{Environment: "development"})

	openai := body["openaiKey"].(map[string]any)
	assert.Equal(t, false, openai["present"])
	assert.NotContains(t, openai, "prefix")
}
