package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simplemem/simplemem-mcp/internal/httputil"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/http/dto"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// TokenHandler implements the token endpoint for the three supported grants.
type TokenHandler struct {
	tokenUseCase usecase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a token handler with required dependencies.
func NewTokenHandler(tokenUseCase usecase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueHandler dispatches a token request to the grant implementation.
// POST /oauth/token - accepts JSON or form encoding; client credentials via
// HTTP Basic auth or request body.
func (h *TokenHandler) IssueHandler(c *gin.Context) {
	req, err := h.bindRequest(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Basic auth credentials take precedence over body credentials.
	if username, password, ok := c.Request.BasicAuth(); ok {
		req.ClientID = username
		req.ClientSecret = password
	}

	if err := req.Validate(); err != nil {
		httputil.HandleOAuthErrorGin(
			c,
			domain.NewOAuthError(domain.ErrInvalidRequest, err.Error()),
			h.logger,
		)
		return
	}

	var output *domain.IssueTokenOutput
	switch req.GrantType {
	case domain.GrantTypeClientCredentials:
		output, err = h.tokenUseCase.ClientCredentials(
			c.Request.Context(), req.ClientID, req.ClientSecret, req.Scope)
	case domain.GrantTypeAuthorizationCode:
		output, err = h.tokenUseCase.ExchangeCode(c.Request.Context(), &usecase.ExchangeCodeInput{
			ClientID:     req.ClientID,
			ClientSecret: req.ClientSecret,
			Code:         req.Code,
			RedirectURI:  req.RedirectURI,
			CodeVerifier: req.CodeVerifier,
			Scope:        req.Scope,
		})
	case domain.GrantTypeRefreshToken:
		output, err = h.tokenUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	default:
		err = domain.NewOAuthError(
			domain.ErrUnsupportedGrantType,
			"supported grant types: client_credentials, authorization_code, refresh_token",
		)
	}

	if err != nil {
		// RFC 6749 §5.2: the 401 carries a challenge for the auth scheme the
		// endpoint supports, regardless of how the client sent credentials.
		if errors.Is(err, domain.ErrInvalidClient) {
			c.Header("WWW-Authenticate", `Basic realm="oauth"`)
		}
		httputil.HandleOAuthErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("token issued",
		slog.String("grant_type", req.GrantType),
		slog.String("client_id", req.ClientID))

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapTokenOutputToResponse(output))
}

// InfoHandler describes the bearer token that authenticated the request.
// GET /oauth/info - requires the bearer middleware.
func (h *TokenHandler) InfoHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleOAuthErrorGin(
			c,
			domain.NewOAuthError(domain.ErrInvalidToken, "missing bearer token"),
			h.logger,
		)
		return
	}

	c.JSON(http.StatusOK, dto.MapClaimsToInfoResponse(claims))
}

// bindRequest decodes the token request from JSON or form encoding based on
// the Content-Type header.
func (h *TokenHandler) bindRequest(c *gin.Context) (*dto.TokenRequest, error) {
	var req dto.TokenRequest

	contentType := c.ContentType()
	if strings.Contains(contentType, "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := c.ShouldBind(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
