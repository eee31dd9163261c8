package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/imageurl"
	"github.com/shonenloop/story-api/internal/llm"
	"github.com/shonenloop/story-api/internal/logger"
	"github.com/shonenloop/story-api/internal/metrics"
	"github.com/shonenloop/story-api/internal/models"
	"github.com/shonenloop/story-api/internal/ratelimit"
	"github.com/shonenloop/story-api/internal/state"
	"github.com/shonenloop/story-api/internal/story"
)

const sessionHeader = "X-Session-ID"

// StoryEngine is the generation capability the handler drives
type StoryEngine interface {
	NextBeat(ctx context.Context, req *models.StoryRequest) (*story.Outcome, error)
}

// StoryHandler serves the story generation endpoint
type StoryHandler struct {
	engine        StoryEngine
	governor      *ratelimit.Governor
	store         state.Store
	sentryMetrics *metrics.SentryMetrics
	cwMetrics     *metrics.Client
}

// NewStoryHandler creates the handler over its collaborators
func NewStoryHandler(
	engine StoryEngine,
	governor *ratelimit.Governor,
	store state.Store,
	cwMetrics *metrics.Client,
) *StoryHandler {
	return &StoryHandler{
		engine:        engine,
		governor:      governor,
		store:         store,
		sentryMetrics: metrics.NewSentryMetrics(),
		cwMetrics:     cwMetrics,
	}
}

// NextBeat handles POST /api/story/next. The governor runs before anything
// else so rejected requests never touch a model.
func (h *StoryHandler) NextBeat(c *gin.Context) {
	if res := h.governor.CheckAndRecord(); !res.Allowed {
		h.sentryMetrics.RecordRateLimitHit(c.Request.Context(), string(res.Reason))
		if h.cwMetrics != nil {
			h.cwMetrics.RecordRateLimitHit(string(res.Reason))
		}
		h.writeGenerationError(c, llm.NewError(llm.CategoryRateLimited, res.Message, nil))
		return
	}

	var req models.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	startTime := time.Now()
	outcome, err := h.engine.NextBeat(c.Request.Context(), &req)
	duration := time.Since(startTime)

	if h.cwMetrics != nil {
		h.cwMetrics.RecordGenerationDuration(duration, err == nil)
	}
	h.sentryMetrics.RecordGenerationDuration(c.Request.Context(), duration, err == nil)

	if err != nil {
		h.writeGenerationError(c, err)
		return
	}

	logger.Info("Story beat generated", logger.Fields{
		"request_id":  c.GetString("request_id"),
		"model":       outcome.Model,
		"attempts":    outcome.Attempts,
		"duration_ms": duration.Milliseconds(),
	})

	if outcome.Usage != nil {
		h.sentryMetrics.RecordTokenUsage(c.Request.Context(), outcome.Model,
			outcome.Usage.TotalTokens, outcome.Usage.InputTokens, outcome.Usage.OutputTokens)
		if h.cwMetrics != nil {
			h.cwMetrics.RecordTokenUsage(outcome.Model,
				outcome.Usage.TotalTokens, outcome.Usage.InputTokens, outcome.Usage.OutputTokens)
		}
	}

	resp := outcome.Response
	h.saveSession(c, &req, resp)

	c.JSON(http.StatusOK, gin.H{
		"beat":        resp.Beat,
		"storyPanel":  resp.StoryPanel,
		"imagePrompt": resp.ImagePrompt,
		"imageUrl":    imageurl.ForPrompt(resp.ImagePrompt),
		"recapLine":   resp.RecapLine,
		"nextSignal":  resp.NextSignal,
		"model":       outcome.Model,
		"request_id":  c.GetString("request_id"),
	})
}

// saveSession records the post-turn state when the client identifies itself.
// Sessions are opt-in: no header means the client keeps its own state.
func (h *StoryHandler) saveSession(c *gin.Context, req *models.StoryRequest, resp *models.StoryResponse) {
	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		return
	}

	history := req.History
	if req.ChoiceID != "" && len(history) > 0 {
		history[len(history)-1].ChoiceID = req.ChoiceID
	}

	h.store.Save(sessionID, &models.StoryState{
		Dream:       req.Dream,
		History:     append(history, models.HistoryEntry{Beat: resp.Beat}),
		CurrentBeat: &resp.Beat,
		StoryPanel:  resp.StoryPanel,
		ImagePrompt: resp.ImagePrompt,
	})
}

// writeGenerationError maps the error taxonomy onto HTTP responses. Free-tier
// conditions are flagged so clients can show the right guidance.
func (h *StoryHandler) writeGenerationError(c *gin.Context, err error) {
	category := llm.CategoryOf(err)
	message := llm.MessageOf(err)

	fields := logger.WithContext(c)
	fields["category"] = string(category)

	switch category {
	case llm.CategoryQuotaExhausted:
		logger.Warn("Generation rejected: provider quota exhausted", fields)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":         message,
			"freeTierLimit": true,
		})
	case llm.CategoryBillingDisabled:
		logger.Warn("Generation rejected: billing disabled", fields)
		c.JSON(http.StatusForbidden, gin.H{
			"error":         message,
			"freeTierLimit": true,
		})
	case llm.CategoryRateLimited:
		logger.Warn("Generation rejected: rate limited", fields)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":         "Rate limit exceeded",
			"message":       message,
			"freeTierLimit": true,
		})
	default:
		// Credentials, model availability, malformed output and anything
		// unclassified are server-side faults from the client's view.
		logger.Error("Generation failed", err, fields)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate story beat",
			"details": message,
			"type":    string(category),
		})
	}
}
