package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/http/dto"
)

// DiscoveryHandler serves the OAuth discovery documents (RFC 8414 and
// RFC 9728). The issuer origin is derived from each request so the same
// deployment works behind any hostname or reverse proxy without extra
// configuration.
type DiscoveryHandler struct {
	pathPrefix string
}

// NewDiscoveryHandler creates a discovery handler. The path prefix is
// prepended to endpoint paths when the server is mounted under a sub-path.
func NewDiscoveryHandler(pathPrefix string) *DiscoveryHandler {
	return &DiscoveryHandler{pathPrefix: normalizePrefix(pathPrefix)}
}

// AuthorizationServerMetadataHandler serves the RFC 8414 document.
// GET /.well-known/oauth-authorization-server
func (h *DiscoveryHandler) AuthorizationServerMetadataHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.serverMetadata(c))
}

// OpenIDConfigurationHandler serves the same document under the OIDC
// discovery path, which some clients probe first.
// GET /.well-known/openid-configuration
func (h *DiscoveryHandler) OpenIDConfigurationHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.serverMetadata(c))
}

// ProtectedResourceMetadataHandler serves the RFC 9728 document.
// GET /.well-known/oauth-protected-resource
func (h *DiscoveryHandler) ProtectedResourceMetadataHandler(c *gin.Context) {
	issuer := h.Issuer(c)

	c.JSON(http.StatusOK, dto.ProtectedResourceMetadata{
		Resource:               issuer,
		AuthorizationServers:   []string{issuer},
		BearerMethodsSupported: []string{"header"},
	})
}

// Issuer returns the issuer URL for the current request: request origin plus
// the configured path prefix.
func (h *DiscoveryHandler) Issuer(c *gin.Context) string {
	return requestOrigin(c) + h.pathPrefix
}

func (h *DiscoveryHandler) serverMetadata(c *gin.Context) dto.AuthorizationServerMetadata {
	issuer := h.Issuer(c)

	return dto.AuthorizationServerMetadata{
		Issuer:                issuer,
		AuthorizationEndpoint: issuer + "/oauth/authorize",
		TokenEndpoint:         issuer + "/oauth/token",
		TokenEndpointAuthMethodsSupported: []string{
			"client_secret_basic",
			"client_secret_post",
			"none",
		},
		GrantTypesSupported: []string{
			domain.GrantTypeClientCredentials,
			domain.GrantTypeAuthorizationCode,
			domain.GrantTypeRefreshToken,
		},
		ResponseTypesSupported:        []string{domain.ResponseTypeCode},
		CodeChallengeMethodsSupported: []string{domain.CodeChallengeMethodS256},
	}
}

// requestOrigin reconstructs the external origin of a request. The forwarded
// protocol header wins over the connection scheme so TLS-terminating proxies
// produce https URLs.
func requestOrigin(c *gin.Context) string {
	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// normalizePrefix forces a leading slash and strips any trailing slash so the
// prefix concatenates cleanly with endpoint paths. Empty stays empty.
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
