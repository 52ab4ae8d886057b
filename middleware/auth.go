package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expensetrackr/expense-api/utils"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// AuthMiddleware validates the Bearer token and stores the authenticated
// user's id and email on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		userID, email, err := utils.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Set(userEmailKey, email)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "" outside an
// authenticated request.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
