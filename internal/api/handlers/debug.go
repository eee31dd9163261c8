package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/config"
)

const keyPrefixLen = 4

// DebugHandler exposes a redacted view of the environment so deployments can
// be checked without ever revealing a credential.
type DebugHandler struct {
	cfg *config.Config
}

func NewDebugHandler(cfg *config.Config) *DebugHandler {
	return &DebugHandler{cfg: cfg}
}

// Env handles GET /api/debug/env. Keys are reported as presence, length and a
// short prefix only - the full value is never written to the response or logs.
func (h *DebugHandler) Env(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"environment": h.cfg.Environment,
		"models":      h.cfg.StoryModels,
		"geminiKey":   describeKey(h.cfg.GeminiAPIKey),
		"openaiKey":   describeKey(h.cfg.OpenAIAPIKey),
		"rateLimits": gin.H{
			"perMinute": h.cfg.PerMinuteLimit,
			"perDay":    h.cfg.PerDayLimit,
		},
	})
}

func describeKey(key string) gin.H {
	if key == "" {
		return gin.H{"present": false}
	}

	prefix := key
	if len(prefix) > keyPrefixLen {
		prefix = prefix[:keyPrefixLen]
	}

	return gin.H{
		"present": true,
		"length":  len(key),
		"prefix":  prefix + "****",
	}
}
