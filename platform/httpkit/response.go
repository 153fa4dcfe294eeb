// Package httpkit provides shared HTTP transport utilities: response
// envelopes, error mapping, identity extraction, and common middleware.
package httpkit

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

// Response is the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError is the error payload within a response envelope.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// OK writes a successful response with the given payload.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// Error writes an error response with the given status, code and message.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, Response{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	})
}

// HandleError maps a domain error to an HTTP response. Typed apperr errors
// carry their own status; anything else becomes a 500 with a generic message
// so internal details never leak to clients.
func HandleError(c *gin.Context, log *logger.Logger, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUnknown {
			log.Error("internal error", "error", err.Error(), "path", c.FullPath())
		}
		Error(c, appErr.HTTPStatus(), kindCode(appErr.Kind), appErr.Message, appErr.Details)
		return
	}

	log.Error("unhandled error", "error", err.Error(), "path", c.FullPath())
	Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil)
}

func kindCode(kind apperr.Kind) string {
	switch kind {
	case apperr.KindNotFound:
		return "NOT_FOUND"
	case apperr.KindValidation:
		return "VALIDATION_ERROR"
	case apperr.KindConflict:
		return "CONFLICT"
	case apperr.KindForbidden:
		return "FORBIDDEN"
	case apperr.KindUnauthorized:
		return "UNAUTHORIZED"
	case apperr.KindBadRequest:
		return "BAD_REQUEST"
	case apperr.KindUnavailable:
		return "UPSTREAM_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
