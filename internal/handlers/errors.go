package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/partsledger/internal/apperrors"
	"github.com/SscSPs/partsledger/internal/dto"
	"github.com/SscSPs/partsledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Error kinds returned in dto.ErrorResponse.
const (
	KindValidation        = "ValidationError"
	KindNotFound          = "NotFoundError"
	KindConflict          = "ConflictError"
	KindInsufficientStock = "InsufficientStockError"
	KindInvariant         = "InvariantViolation"
	KindInternal          = "InternalError"
	KindUnauthorized      = "Unauthorized"
	KindUnavailable       = "Unavailable"
)

// classifyError maps a service error to its HTTP status and error kind.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, apperrors.ErrInsufficientStock):
		return http.StatusConflict, KindInsufficientStock
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, KindConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable, KindUnavailable
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, KindUnauthorized
	case errors.Is(err, apperrors.ErrInvariantViolation):
		return http.StatusInternalServerError, KindInvariant
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// respondError writes err as a dto.ErrorResponse. Server-side failures are
// logged at error level and their details are not echoed to the client.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status, kind := classifyError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()), slog.String("kind", kind))
		message = "Failed to " + action
	} else {
		logger.Warn("Request rejected while trying to "+action, slog.String("error", err.Error()), slog.String("kind", kind))
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Kind: kind, Message: message})
}

// respondBindError reports a request that failed JSON or query binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Kind: KindValidation, Message: "Invalid request: " + err.Error()})
}
