// Package domain defines the OAuth 2.0 authorization server domain models:
// registered clients, authorization codes and token claims.
package domain

// ClientIDPrefix is prepended to every generated client identifier.
const ClientIDPrefix = "smc_"

// Supported grant types for the token endpoint.
const (
	GrantTypeClientCredentials = "client_credentials"
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
)

// ResponseTypeCode is the only supported authorization response type.
const ResponseTypeCode = "code"

// PKCE code challenge methods from RFC 7636.
const (
	CodeChallengeMethodS256  = "S256"
	CodeChallengeMethodPlain = "plain"
)

// Token types embedded in signed token claims.
const (
	TokenTypeAccess  = "access_token"
	TokenTypeRefresh = "refresh_token"
)

// DefaultRedirectURIs is the built-in set of known connector callback URLs,
// used when no explicit allowlist is configured.
var DefaultRedirectURIs = []string{
	"https://chatgpt.com/connector_platform_oauth_redirect",
	"https://chat.openai.com/connector_platform_oauth_redirect",
}
