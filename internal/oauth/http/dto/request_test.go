package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/http/dto"
)

func TestTokenRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request dto.TokenRequest
		wantErr bool
	}{
		{
			name: "client credentials complete",
			request: dto.TokenRequest{
				GrantType:    domain.GrantTypeClientCredentials,
				ClientID:     "smc_abc",
				ClientSecret: "secret",
			},
		},
		{
			name: "client credentials missing secret",
			request: dto.TokenRequest{
				GrantType: domain.GrantTypeClientCredentials,
				ClientID:  "smc_abc",
			},
			wantErr: true,
		},
		{
			name: "authorization code complete without secret",
			request: dto.TokenRequest{
				GrantType:    domain.GrantTypeAuthorizationCode,
				ClientID:     "smc_abc",
				Code:         "code",
				RedirectURI:  "https://example.com/callback",
				CodeVerifier: "verifier",
			},
		},
		{
			name: "authorization code missing verifier",
			request: dto.TokenRequest{
				GrantType:   domain.GrantTypeAuthorizationCode,
				ClientID:    "smc_abc",
				Code:        "code",
				RedirectURI: "https://example.com/callback",
			},
			wantErr: true,
		},
		{
			name: "refresh token complete",
			request: dto.TokenRequest{
				GrantType:    domain.GrantTypeRefreshToken,
				RefreshToken: "token",
			},
		},
		{
			name: "refresh token blank",
			request: dto.TokenRequest{
				GrantType:    domain.GrantTypeRefreshToken,
				RefreshToken: "   ",
			},
			wantErr: true,
		},
		{
			name:    "missing grant type",
			request: dto.TokenRequest{},
			wantErr: true,
		},
		{
			name: "unknown grant type passes parameter validation",
			request: dto.TokenRequest{
				GrantType: "password",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthorizeRequestValidate(t *testing.T) {
	valid := dto.AuthorizeRequest{
		ResponseType:        domain.ResponseTypeCode,
		ClientID:            "smc_abc",
		RedirectURI:         "https://example.com/callback",
		CodeChallenge:       "challenge",
		CodeChallengeMethod: domain.CodeChallengeMethodS256,
	}
	assert.NoError(t, valid.Validate())

	missingChallenge := valid
	missingChallenge.CodeChallenge = ""
	assert.Error(t, missingChallenge.Validate())

	badMethod := valid
	badMethod.CodeChallengeMethod = "S512"
	assert.Error(t, badMethod.Validate())
}

func TestConsentDecisionApproved(t *testing.T) {
	approve := dto.ConsentDecisionRequest{Decision: "approve"}
	assert.True(t, approve.Approved())

	for _, decision := range []string{"deny", "", "APPROVE", "yes"} {
		req := dto.ConsentDecisionRequest{Decision: decision}
		assert.False(t, req.Approved(), decision)
	}
}
