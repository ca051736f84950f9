package dto

import (
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// TokenResponse is the RFC 6749 §5.1 success body of the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// MapTokenOutputToResponse converts a token issuance result to the wire format.
func MapTokenOutputToResponse(output *domain.IssueTokenOutput) TokenResponse {
	return TokenResponse{
		AccessToken:  output.AccessToken,
		TokenType:    output.TokenType,
		ExpiresIn:    output.ExpiresIn,
		RefreshToken: output.RefreshToken,
		Scope:        output.Scope,
	}
}

// TokenInfoResponse describes the verified bearer token for introspection.
type TokenInfoResponse struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name,omitempty"`
	IssuedAt   int64  `json:"issued_at"`
	ExpiresAt  int64  `json:"expires_at"`
}

// MapClaimsToInfoResponse converts verified token claims to the wire format.
func MapClaimsToInfoResponse(claims *domain.TokenClaims) TokenInfoResponse {
	return TokenInfoResponse{
		ClientID:   claims.ClientID,
		ClientName: claims.ClientName,
		IssuedAt:   claims.IssuedAt.Unix(),
		ExpiresAt:  claims.ExpiresAt.Unix(),
	}
}

// AuthorizationServerMetadata is the RFC 8414 discovery document.
type AuthorizationServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty"`
}

// ProtectedResourceMetadata is the RFC 9728 discovery document.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported"`
}
