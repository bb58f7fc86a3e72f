package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/bugloop/issue-tracker/internal/domain/errors"
)

// ResponseError is the error envelope of the API.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// authFailedMessage is returned for every authentication failure. The
// response never reveals which check rejected the token.
const authFailedMessage = "authentication failed"

func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger) {
	logger.Warn("api error response",
		zap.Int("status_code", statusCode),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ResponseError{Error: message, Code: errorCode})
}

func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

func RespondWithNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithMappedError translates a domain error into an HTTP response.
// Every token or credential failure collapses to the same 401 body.
func RespondWithMappedError(c *gin.Context, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrInvalidToken),
		errors.Is(err, domainErrors.ErrTokenRevoked),
		errors.Is(err, domainErrors.ErrReuseDetected),
		errors.Is(err, domainErrors.ErrConflict):
		RespondWithError(c, http.StatusUnauthorized, authFailedMessage, "unauthorized", logger)
	case errors.Is(err, domainErrors.ErrForbidden):
		RespondWithError(c, http.StatusForbidden, "forbidden", "forbidden", logger)
	case errors.Is(err, domainErrors.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, "resource not found", "not_found", logger)
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		RespondWithError(c, http.StatusConflict, "resource already exists", "conflict", logger)
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		RespondWithError(c, http.StatusConflict, err.Error(), "invalid_transition", logger)
	case errors.Is(err, domainErrors.ErrCriticalNeedsComment):
		RespondWithError(c, http.StatusConflict, "critical issue requires a comment before closing", "critical_needs_comment", logger)
	default:
		logger.Error("unhandled service error", zap.Error(err))
		RespondWithError(c, http.StatusInternalServerError, "internal server error", "internal", logger)
	}
}
