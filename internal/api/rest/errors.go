package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-confirmator/internal/logger"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"

	// Server errors (5xx)
	ErrCodeInternalError      ErrorCode = "internal_error"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	c.JSON(statusCode, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: message,
			Details: strings.Join(details, ", "),
		},
	})
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, message, details...)
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, ErrCodeNotFound, message, details...)
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, ErrCodeValidationFailed, "Validation failed", details)
}

// respondInternalError logs the error and responds with an internal server error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.ErrorCtx(c.Request.Context(), err, fields...)
	respondWithError(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// respondUnavailable logs the error and responds with a service unavailable error
func respondUnavailable(c *gin.Context, err error, message string) {
	logger.WarnCtx(c.Request.Context(), message, zap.Error(err))
	respondWithError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, err.Error())
}
