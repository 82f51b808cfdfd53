package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/partsledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// OperatorHeader names the operator when token auth is disabled.
const OperatorHeader = "X-Operator"

// OperatorMiddleware records who performs a request so audit entries can name them.
// When authEnabled is false the operator comes from the X-Operator header and
// requests without it are attributed to the system user downstream.
func OperatorMiddleware(authEnabled bool, jwtSecret string) gin.HandlerFunc {
	if authEnabled {
		return AuthMiddleware(jwtSecret)
	}
	return func(c *gin.Context) {
		if operator := strings.TrimSpace(c.GetHeader(OperatorHeader)); operator != "" {
			logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("user_id", operator))
			ctx := WithLogger(WithUserID(c.Request.Context(), operator), logger)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and records the token subject as the operator.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"kind": "Unauthorized", "message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"kind": "Unauthorized", "message": "Authorization header format must be Bearer {token}"})
			return
		}

		operator, err := utils.ParseOperatorToken(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"kind": "Unauthorized", "message": msg})
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", operator))
		ctx := WithLogger(WithUserID(c.Request.Context(), operator), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
