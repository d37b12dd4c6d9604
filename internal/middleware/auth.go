// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// PermissionRequired loads the authenticated user and checks a permission
// from users.permissions. Admins pass implicitly.
func PermissionRequired(users store.UserStore, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr, ok := utils.GetUserIDFromContext(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		if !user.HasPermission(permission) {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
