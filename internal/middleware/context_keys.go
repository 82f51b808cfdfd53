package middleware

import (
	"context"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the operator name in the request context.
const userIDKey = contextKey("userID")

// WithUserID returns a copy of ctx carrying the operator name.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the operator recorded by OperatorMiddleware.
// It returns the operator and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// OperatorOrSystem returns the operator recorded on the request or domain.SystemUser.
func OperatorOrSystem(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return userID
	}
	return domain.SystemUser
}
