package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows browser clients from the configured origins.
// CORS_ALLOWED_ORIGINS is a comma-separated list; empty means same-origin
// deployments only.
func CORSMiddleware() gin.HandlerFunc {
	allowed := strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, candidate := range allowed {
			if candidate != "" && strings.TrimSpace(candidate) == origin {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				break
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
