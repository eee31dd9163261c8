package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/models"
	"github.com/shonenloop/story-api/internal/state"
)

// StateHandler serves the per-session story state endpoints. State is held in
// process memory only; a lost session simply starts a new story.
type StateHandler struct {
	store state.Store
}

func NewStateHandler(store state.Store) *StateHandler {
	return &StateHandler{store: store}
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": sessionHeader + " header is required"})
		return "", false
	}
	return id, true
}

// Get handles GET /api/story/state
func (h *StateHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	st, found := h.store.Load(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No story state for this session"})
		return
	}

	c.JSON(http.StatusOK, st)
}

// Put handles PUT /api/story/state, replacing the session's state wholesale
func (h *StateHandler) Put(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var st models.StoryState
	if err := c.ShouldBindJSON(&st); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid state payload",
			"details": err.Error(),
		})
		return
	}

	h.store.Save(id, &st)
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// Delete handles DELETE /api/story/state
func (h *StateHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	h.store.Clear(id)
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
