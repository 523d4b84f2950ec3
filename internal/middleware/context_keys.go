package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the
// request context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and whether it was found.
func GetUserIDFromContext(c *gin.Context) (int, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(int); ok {
		return userID, true
	}
	return 0, false
}

// WithUserID returns a context carrying the authenticated user's ID. Exposed
// for tests that exercise handlers without the auth middleware.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
