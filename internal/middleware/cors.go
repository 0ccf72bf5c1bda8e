package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AllowedOrigins is the browser origin allow-list: local dev front-ends plus
// extra (CORS_ALLOWED_ORIGINS). CORS and the websocket upgrader both use it.
func AllowedOrigins(extra []string) map[string]bool {
	allowed := make(map[string]bool, len(devOrigins)+len(extra))
	for _, o := range devOrigins {
		allowed[o] = true
	}
	for _, o := range extra {
		allowed[o] = true
	}
	return allowed
}

// CORS reflects origins from AllowedOrigins(extra).
func CORS(extra []string) gin.HandlerFunc {
	allowedOrigins := AllowedOrigins(extra)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && allowedOrigins[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Authorization, Accept, Origin, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		// preflight ends here, before auth
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
