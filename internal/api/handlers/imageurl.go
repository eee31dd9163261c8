package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shonenloop/story-api/internal/imageurl"
)

// ImageURL handles GET /api/image-url. It only derives a URL - the image
// itself is fetched by the client straight from the image service.
func ImageURL(c *gin.Context) {
	prompt := c.Query("prompt")
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": imageurl.ForPrompt(prompt)})
}
