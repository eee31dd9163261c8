package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsMaxAge = 12 * time.Hour

// CORS allows browser clients to call the API from any origin. The API is
// keyless for clients, so there is nothing to protect with an origin list.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Session-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          corsMaxAge,
	})
}
