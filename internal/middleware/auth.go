package middleware

import (
	"net/http"
	"strings"

	"diagnostics-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key holding the authenticated user's id.
const UserIDKey = "userID"

// AuthMiddleware requires a "Bearer <token>" header signed with secret.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortResponse(c, http.StatusUnauthorized, "Token not provided")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.AbortResponse(c, http.StatusUnauthorized, "Malformed authorization header")
			return
		}

		claims, err := utils.ValidateToken(secret, parts[1])
		if err != nil || claims.UserID == "" {
			utils.AbortResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
