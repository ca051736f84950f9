// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	customValidation "github.com/simplemem/simplemem-mcp/internal/validation"
)

// AuthorizeRequest carries the query parameters of an authorization request.
// The same set is carried verbatim through the consent form on POST, so the
// flow stays stateless between the two steps.
type AuthorizeRequest struct {
	ResponseType        string `form:"response_type" json:"response_type"`
	ClientID            string `form:"client_id" json:"client_id"`
	RedirectURI         string `form:"redirect_uri" json:"redirect_uri"`
	Scope               string `form:"scope" json:"scope"`
	State               string `form:"state" json:"state"`
	CodeChallenge       string `form:"code_challenge" json:"code_challenge"`
	CodeChallengeMethod string `form:"code_challenge_method" json:"code_challenge_method"`
}

// Validate checks the authorization request parameters.
func (r *AuthorizeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResponseType, validation.Required, customValidation.NotBlank),
		validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.RedirectURI, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CodeChallenge, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CodeChallengeMethod,
			validation.In(domain.CodeChallengeMethodS256, domain.CodeChallengeMethodPlain),
		),
	)
}

// ConsentDecisionRequest is the consent form submission: the original
// authorization parameters plus the user's decision.
type ConsentDecisionRequest struct {
	AuthorizeRequest
	Decision string `form:"decision" json:"decision"`
}

// Approved reports whether the resource owner approved the request. Any
// value other than an explicit approval is treated as a denial.
func (r *ConsentDecisionRequest) Approved() bool {
	return r.Decision == "approve"
}

// TokenRequest carries the parameters of a token endpoint call. The endpoint
// accepts both JSON and form encoding; client credentials may arrive in the
// body or through HTTP Basic auth.
type TokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
	Code         string `form:"code" json:"code"`
	RedirectURI  string `form:"redirect_uri" json:"redirect_uri"`
	CodeVerifier string `form:"code_verifier" json:"code_verifier"`
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
	Scope        string `form:"scope" json:"scope"`
}

// Validate checks the parameters required by the requested grant type.
// Unknown grant types pass here and are rejected by the handler with
// unsupported_grant_type, which is the more specific protocol error.
func (r *TokenRequest) Validate() error {
	switch r.GrantType {
	case domain.GrantTypeClientCredentials:
		return validation.ValidateStruct(r,
			validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank),
			validation.Field(&r.ClientSecret, validation.Required, customValidation.NotBlank),
		)
	case domain.GrantTypeAuthorizationCode:
		return validation.ValidateStruct(r,
			validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank),
			validation.Field(&r.Code, validation.Required, customValidation.NotBlank),
			validation.Field(&r.RedirectURI, validation.Required, customValidation.NotBlank),
			validation.Field(&r.CodeVerifier, validation.Required, customValidation.NotBlank),
		)
	case domain.GrantTypeRefreshToken:
		return validation.ValidateStruct(r,
			validation.Field(&r.RefreshToken, validation.Required, customValidation.NotBlank),
		)
	default:
		return validation.ValidateStruct(r,
			validation.Field(&r.GrantType, validation.Required, customValidation.NotBlank),
		)
	}
}
