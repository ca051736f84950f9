// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// OAuthErrorResponse is the RFC 6749 §5.2 error body.
type OAuthErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ErrorResponse represents a structured error response for non-protocol endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// oauthErrorStatus maps each protocol error code to its HTTP status.
func oauthErrorStatus(err error) int {
	switch {
	case apperrors.Is(err, domain.ErrInvalidClient),
		apperrors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	case apperrors.Is(err, domain.ErrInvalidRequest),
		apperrors.Is(err, domain.ErrInvalidGrant),
		apperrors.Is(err, domain.ErrUnsupportedGrantType),
		apperrors.Is(err, domain.ErrUnsupportedResponseType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleOAuthErrorGin writes an OAuth protocol error as a JSON response with
// the status mandated by RFC 6749. Errors that carry no protocol code are
// reported as server_error without exposing internal details.
func HandleOAuthErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	writeOAuthError(c, oauthErrorStatus(err), err, logger)
}

// HandleAuthorizeErrorGin writes an OAuth protocol error for the authorization
// endpoint. RFC 6749 §4.1.2.1 defines no 401 there: every request validation
// failure, unknown or revoked clients included, answers 400. Errors that carry
// no protocol code are reported as server_error.
func HandleAuthorizeErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusBadRequest
	var oauthErr *domain.OAuthError
	if !errors.As(err, &oauthErr) {
		statusCode = http.StatusInternalServerError
	}

	writeOAuthError(c, statusCode, err, logger)
}

func writeOAuthError(c *gin.Context, statusCode int, err error, logger *slog.Logger) {
	var response OAuthErrorResponse
	var oauthErr *domain.OAuthError
	if errors.As(err, &oauthErr) {
		response = OAuthErrorResponse{
			Error:            oauthErr.Code(),
			ErrorDescription: oauthErr.Description(),
		}
	} else {
		response = OAuthErrorResponse{
			Error:            domain.ErrServerError.Error(),
			ErrorDescription: "an internal error occurred",
		}
	}

	if logger != nil {
		logger.Error("oauth request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleErrorGin maps application errors to HTTP status codes for the
// non-protocol endpoints (gateway, health, client admin).
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var response ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		response = ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusUnprocessableEntity
		response = ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		response = ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		response = ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleValidationErrorGin writes a 400 Bad Request response for malformed or
// invalid request parameters.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, OAuthErrorResponse{
		Error:            domain.ErrInvalidRequest.Error(),
		ErrorDescription: err.Error(),
	})
}
