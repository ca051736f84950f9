package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	authService "github.com/simplemem/simplemem-mcp/internal/oauth/service"
)

// tokenUseCase implements TokenUseCase for the three supported grants and for
// bearer token verification.
type tokenUseCase struct {
	config        *config.Config
	clientRepo    ClientRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
	authorize     AuthorizeUseCase
}

// ClientCredentials verifies the client secret and mints an access token.
// No refresh token is issued for this grant: the client can authenticate
// directly whenever it needs a new token.
func (t *tokenUseCase) ClientCredentials(
	ctx context.Context,
	clientID, clientSecret, scope string,
) (*domain.IssueTokenOutput, error) {
	client, err := t.activeClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if !t.secretService.CompareSecret(clientSecret, client.SecretHash) {
		return nil, domain.NewOAuthError(domain.ErrInvalidClient, "invalid client credentials")
	}

	accessToken, err := t.mintToken(client, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	return &domain.IssueTokenOutput{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(t.config.AccessTokenExpiration.Seconds()),
		Scope:       scope,
	}, nil
}

// ExchangeCode redeems an authorization code and mints an access token plus a
// refresh token. Confidential clients must present their secret; public PKCE
// clients present no secret and rely on the code verifier alone.
func (t *tokenUseCase) ExchangeCode(
	ctx context.Context,
	input *ExchangeCodeInput,
) (*domain.IssueTokenOutput, error) {
	client, err := t.activeClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	if input.ClientSecret != "" {
		if !t.secretService.CompareSecret(input.ClientSecret, client.SecretHash) {
			return nil, domain.NewOAuthError(domain.ErrInvalidClient, "invalid client credentials")
		}
	}

	record, err := t.authorize.RedeemCode(ctx, &RedeemCodeInput{
		Code:         input.Code,
		ClientID:     input.ClientID,
		RedirectURI:  input.RedirectURI,
		CodeVerifier: input.CodeVerifier,
	})
	if err != nil {
		return nil, err
	}

	scope := record.Scope
	if scope == "" {
		scope = input.Scope
	}

	return t.issueTokenPair(client, scope)
}

// Refresh validates a refresh token, mints a new access token and rotates the
// refresh token. The old refresh token is not tracked after rotation; its
// signature stays valid until it expires, matching stateless token semantics.
func (t *tokenUseCase) Refresh(ctx context.Context, refreshToken string) (*domain.IssueTokenOutput, error) {
	claims, err := t.tokenService.Parse(refreshToken)
	if err != nil {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "invalid refresh token")
	}
	if claims.TokenType != domain.TokenTypeRefresh {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "token is not a refresh token")
	}

	client, err := t.activeClient(ctx, claims.ClientID)
	if err != nil {
		return nil, err
	}

	return t.issueTokenPair(client, "")
}

// Verify validates an access token for resource access. The client record is
// re-resolved on every call, so revoking a client immediately invalidates all
// of its outstanding tokens.
func (t *tokenUseCase) Verify(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := t.tokenService.Parse(token)
	if err != nil {
		return nil, domain.NewOAuthError(domain.ErrInvalidToken, "invalid or expired token")
	}
	if claims.TokenType != domain.TokenTypeAccess {
		return nil, domain.NewOAuthError(domain.ErrInvalidToken, "token is not an access token")
	}

	client, err := t.clientRepo.Get(ctx, claims.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.NewOAuthError(domain.ErrInvalidToken, "token issuer client no longer exists")
		}
		return nil, err
	}
	if client.Revoked {
		return nil, domain.NewOAuthError(domain.ErrInvalidToken, "client has been revoked")
	}

	return claims, nil
}

// activeClient resolves a client and rejects unknown or revoked ones with the
// invalid_client protocol error.
func (t *tokenUseCase) activeClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := t.clientRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.NewOAuthError(domain.ErrInvalidClient, "invalid client credentials")
		}
		return nil, err
	}
	if client.Revoked {
		return nil, domain.NewOAuthError(domain.ErrInvalidClient, "client has been revoked")
	}
	return client, nil
}

// mintToken signs a token of the given type for the client.
func (t *tokenUseCase) mintToken(client *domain.Client, tokenType string) (string, error) {
	lifetime := t.config.AccessTokenExpiration
	if tokenType == domain.TokenTypeRefresh {
		lifetime = t.config.RefreshTokenExpiration
	}

	now := time.Now().UTC()
	return t.tokenService.Sign(domain.TokenClaims{
		ClientID:   client.ID,
		ClientName: client.Name,
		TokenType:  tokenType,
		IssuedAt:   now,
		ExpiresAt:  now.Add(lifetime),
	})
}

// issueTokenPair mints an access/refresh token pair for the client.
func (t *tokenUseCase) issueTokenPair(client *domain.Client, scope string) (*domain.IssueTokenOutput, error) {
	accessToken, err := t.mintToken(client, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, err := t.mintToken(client, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &domain.IssueTokenOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(t.config.AccessTokenExpiration.Seconds()),
		Scope:        scope,
	}, nil
}

// NewTokenUseCase creates a TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
	authorize AuthorizeUseCase,
) TokenUseCase {
	return &tokenUseCase{
		config:        cfg,
		clientRepo:    clientRepo,
		secretService: secretService,
		tokenService:  tokenService,
		authorize:     authorize,
	}
}
