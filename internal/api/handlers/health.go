package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and the active model lineup
type HealthHandler struct {
	models []string
}

func NewHealthHandler(models []string) *HealthHandler {
	return &HealthHandler{models: models}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"models": h.models,
	})
}
