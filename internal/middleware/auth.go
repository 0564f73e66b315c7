package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/internal/constants"
	apierrors "github.com/taskhub/taskhub/internal/errors"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		accountID := session.Get(constants.ContextKeyAccountID)

		if accountID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store account ID in context for easy access in handlers
		c.Set(constants.ContextKeyAccountID, accountID)
		c.Next()
	}
}

// GetAccountID retrieves the current account ID from context
func GetAccountID(c *gin.Context) (uint64, bool) {
	accountID, exists := c.Get(constants.ContextKeyAccountID)
	if !exists {
		return 0, false
	}

	switch v := accountID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
