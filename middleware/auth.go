package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/umageminite/habit-tracker-app/utils"
)

// AuthRequired validates the Bearer token and stores the caller identity
// in the gin context under "user_id" and "email".
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.Error(c, 401, utils.CodeUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if utils.IsTokenBlacklisted(token) {
			utils.Error(c, 401, utils.CodeUnauthorized, "token revoked")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(c, 401, utils.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// UserID reads the authenticated user id set by AuthRequired.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
