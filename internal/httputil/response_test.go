package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/oauth/token", nil)
	return c, recorder
}

func decodeOAuthError(t *testing.T, recorder *httptest.ResponseRecorder) OAuthErrorResponse {
	t.Helper()

	var body OAuthErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandleOAuthErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid request",
			err:        domain.NewOAuthError(domain.ErrInvalidRequest, "missing grant_type"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "invalid client",
			err:        domain.NewOAuthError(domain.ErrInvalidClient, "invalid client credentials"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_client",
		},
		{
			name:       "invalid grant",
			err:        domain.NewOAuthError(domain.ErrInvalidGrant, "authorization code expired"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_grant",
		},
		{
			name:       "unsupported grant type",
			err:        domain.NewOAuthError(domain.ErrUnsupportedGrantType, "password grant is not supported"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "unsupported_grant_type",
		},
		{
			name:       "invalid token",
			err:        domain.NewOAuthError(domain.ErrInvalidToken, "invalid or expired token"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext()

			HandleOAuthErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			body := decodeOAuthError(t, recorder)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.NotEmpty(t, body.ErrorDescription)
		})
	}
}

func TestHandleOAuthErrorGinInternal(t *testing.T) {
	c, recorder := newTestContext()

	HandleOAuthErrorGin(c, apperrors.New("disk full"), nil)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := decodeOAuthError(t, recorder)
	assert.Equal(t, "server_error", body.Error)
	// Internal details must not leak into the response.
	assert.NotContains(t, body.ErrorDescription, "disk full")
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        apperrors.Wrap(apperrors.ErrNotFound, "client not found"),
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "invalid input",
			err:        apperrors.Wrap(apperrors.ErrInvalidInput, "name is required"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "invalid_input",
		},
		{
			name:       "unauthorized",
			err:        apperrors.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:       "internal",
			err:        apperrors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext()

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := newTestContext()

	HandleValidationErrorGin(c, apperrors.New("client_id: cannot be blank"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeOAuthError(t, recorder)
	assert.Equal(t, "invalid_request", body.Error)
	assert.Contains(t, body.ErrorDescription, "client_id")
}
