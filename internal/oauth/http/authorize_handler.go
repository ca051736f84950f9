package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/httputil"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/http/dto"
	authService "github.com/simplemem/simplemem-mcp/internal/oauth/service"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// consentTemplate renders the authorization consent page. The original
// request parameters are carried verbatim through hidden form fields, so no
// server-side session state exists between the two steps.
var consentTemplate = template.Must(template.New("consent").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Authorize {{.ClientName}}</title>
  <style>
    body { font-family: -apple-system, sans-serif; max-width: 28rem; margin: 4rem auto; padding: 0 1rem; }
    .card { border: 1px solid #ddd; border-radius: 8px; padding: 1.5rem; }
    .scope { background: #f5f5f5; border-radius: 4px; padding: 0.5rem; margin: 1rem 0; }
    button { padding: 0.6rem 1.4rem; border-radius: 6px; border: 0; cursor: pointer; font-size: 1rem; }
    .approve { background: #1a7f37; color: #fff; }
    .deny { background: #eee; }
  </style>
</head>
<body>
  <div class="card">
    <h2>Authorization Request</h2>
    <p><strong>{{.ClientName}}</strong> is requesting access to your memory server.</p>
    {{if .Scope}}<div class="scope">Requested scope: <code>{{.Scope}}</code></div>{{end}}
    <form method="post" action="{{.Action}}">
      <input type="hidden" name="response_type" value="{{.Request.ResponseType}}">
      <input type="hidden" name="client_id" value="{{.Request.ClientID}}">
      <input type="hidden" name="redirect_uri" value="{{.Request.RedirectURI}}">
      <input type="hidden" name="scope" value="{{.Request.Scope}}">
      <input type="hidden" name="state" value="{{.Request.State}}">
      <input type="hidden" name="code_challenge" value="{{.Request.CodeChallenge}}">
      <input type="hidden" name="code_challenge_method" value="{{.Request.CodeChallengeMethod}}">
      <button class="approve" type="submit" name="decision" value="approve">Approve</button>
      <button class="deny" type="submit" name="decision" value="deny">Deny</button>
    </form>
  </div>
</body>
</html>
`))

// consentPageData is the template input for the consent page.
type consentPageData struct {
	ClientName string
	Scope      string
	Action     string
	Request    dto.AuthorizeRequest
}

// AuthorizeHandler implements the authorization endpoint: a GET that renders
// the consent page and a POST that turns the decision into a redirect.
type AuthorizeHandler struct {
	clientUseCase    usecase.ClientUseCase
	authorizeUseCase usecase.AuthorizeUseCase
	redirectURIs     authService.RedirectURIPolicy
	logger           *slog.Logger
}

// NewAuthorizeHandler creates an authorize handler with required dependencies.
func NewAuthorizeHandler(
	clientUseCase usecase.ClientUseCase,
	authorizeUseCase usecase.AuthorizeUseCase,
	redirectURIs authService.RedirectURIPolicy,
	logger *slog.Logger,
) *AuthorizeHandler {
	return &AuthorizeHandler{
		clientUseCase:    clientUseCase,
		authorizeUseCase: authorizeUseCase,
		redirectURIs:     redirectURIs,
		logger:           logger,
	}
}

// ShowHandler validates the authorization request and renders the consent page.
// GET /oauth/authorize
func (h *AuthorizeHandler) ShowHandler(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	client, err := h.validateRequest(c, &req)
	if err != nil {
		httputil.HandleAuthorizeErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := consentTemplate.Execute(c.Writer, consentPageData{
		ClientName: client.Name,
		Scope:      req.Scope,
		Action:     c.Request.URL.Path,
		Request:    req,
	}); err != nil {
		h.logger.Error("failed to render consent page", slog.Any("error", err))
	}
}

// DecideHandler processes the consent form submission. Approval issues an
// authorization code; anything else redirects back with access_denied.
// POST /oauth/authorize
func (h *AuthorizeHandler) DecideHandler(c *gin.Context) {
	var req dto.ConsentDecisionRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// The form parameters may have been tampered with between the two steps,
	// so everything is validated again before any code is issued.
	if _, err := h.validateRequest(c, &req.AuthorizeRequest); err != nil {
		httputil.HandleAuthorizeErrorGin(c, err, h.logger)
		return
	}

	if !req.Approved() {
		h.logger.Info("authorization denied by resource owner",
			slog.String("client_id", req.ClientID))
		h.redirect(c, req.RedirectURI, url.Values{
			"error": []string{"access_denied"},
			"state": []string{req.State},
		})
		return
	}

	code, err := h.authorizeUseCase.IssueCode(c.Request.Context(), &usecase.IssueCodeInput{
		ClientID:            req.ClientID,
		RedirectURI:         req.RedirectURI,
		Scope:               req.Scope,
		CodeChallenge:       req.CodeChallenge,
		CodeChallengeMethod: req.CodeChallengeMethod,
	})
	if err != nil {
		httputil.HandleAuthorizeErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("authorization code issued", slog.String("client_id", req.ClientID))
	h.redirect(c, req.RedirectURI, url.Values{
		"code":  []string{code},
		"state": []string{req.State},
	})
}

// validateRequest runs the checks shared by both steps of the flow and
// resolves the requesting client.
func (h *AuthorizeHandler) validateRequest(
	c *gin.Context,
	req *dto.AuthorizeRequest,
) (*domain.ClientSummary, error) {
	if req.CodeChallengeMethod == "" {
		req.CodeChallengeMethod = domain.CodeChallengeMethodS256
	}

	if req.ResponseType != domain.ResponseTypeCode {
		return nil, domain.NewOAuthError(
			domain.ErrUnsupportedResponseType,
			"only the code response type is supported",
		)
	}

	if err := req.Validate(); err != nil {
		return nil, domain.NewOAuthError(domain.ErrInvalidRequest, err.Error())
	}

	client, err := h.clientUseCase.Get(c.Request.Context(), req.ClientID)
	if err != nil {
		if apperrors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.NewOAuthError(domain.ErrInvalidClient, "unknown client")
		}
		return nil, err
	}
	if client.Revoked {
		return nil, domain.NewOAuthError(domain.ErrInvalidClient, "client has been revoked")
	}

	if !h.redirectURIs.IsAllowed(req.RedirectURI) {
		return nil, domain.NewOAuthError(domain.ErrInvalidRequest, "redirect_uri is not allowed")
	}

	return client, nil
}

// redirect sends a 302 to the redirect URI with the given query parameters
// appended, preserving any existing query on the URI.
func (h *AuthorizeHandler) redirect(c *gin.Context, redirectURI string, params url.Values) {
	target, err := url.Parse(redirectURI)
	if err != nil {
		httputil.HandleAuthorizeErrorGin(
			c,
			domain.NewOAuthError(domain.ErrInvalidRequest, "redirect_uri is not a valid URL"),
			h.logger,
		)
		return
	}

	query := target.Query()
	for key, values := range params {
		for _, value := range values {
			if value != "" {
				query.Set(key, value)
			}
		}
	}
	target.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, target.String())
}
