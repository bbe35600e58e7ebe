package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corrispettivi/registro-api/internal/presentation/http/dto/response"
	"github.com/corrispettivi/registro-api/pkg/utils"
)

// AuthMiddleware creates a session authentication middleware. Each
// authenticated request renews the session token, so the session expires
// only after the inactivity window, not a fixed lifetime. The renewed token
// is returned in the X-Session-Token response header.
func AuthMiddleware(sessions *utils.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := sessions.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired session")
			c.Abort()
			return
		}

		if renewed, err := sessions.Renew(claims); err == nil {
			c.Header("X-Session-Token", renewed)
		}

		c.Set("operator", claims.Operator)
		c.Next()
	}
}
