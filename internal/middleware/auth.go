package middleware

import (
	"net/http"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// JWTAuth requires "Authorization: Bearer <token>" and stores user_id and
// role on the gin context.
func JWTAuth(jwtSvc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Expected Bearer token")
			c.Abort()
			return
		}

		if !authenticate(c, jwtSvc, strings.TrimSpace(parts[1])) {
			return
		}
		c.Next()
	}
}

// QueryTokenAuth reads the token from ?token=, for websocket handshakes
// where browsers cannot set headers.
func QueryTokenAuth(jwtSvc *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "token query parameter is required")
			c.Abort()
			return
		}
		if !authenticate(c, jwtSvc, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, jwtSvc *jwt.Service, token string) bool {
	claims, err := jwtSvc.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return false
	}

	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return true
}

// ActorFromContext builds the engine actor from the authenticated claims.
func ActorFromContext(c *gin.Context) domain.Actor {
	return domain.ActorFor(c.GetInt64("user_id"), c.GetString("role"))
}
