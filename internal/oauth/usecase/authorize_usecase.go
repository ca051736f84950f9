package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	authService "github.com/simplemem/simplemem-mcp/internal/oauth/service"
)

// authorizeUseCase implements AuthorizeUseCase for the authorization code
// lifecycle. Validation happens before any state mutation, so a rejected
// request never leaves a partial record behind.
type authorizeUseCase struct {
	config        *config.Config
	clientRepo    ClientRepository
	codeRepo      CodeRepository
	secretService authService.SecretService
	redirectURIs  authService.RedirectURIPolicy
}

// IssueCode validates an approved authorization request and persists a new
// single-use code with a fixed TTL.
func (a *authorizeUseCase) IssueCode(ctx context.Context, input *IssueCodeInput) (string, error) {
	client, err := a.clientRepo.Get(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return "", domain.NewOAuthError(domain.ErrInvalidClient, "unknown client")
		}
		return "", err
	}
	if client.Revoked {
		return "", domain.NewOAuthError(domain.ErrInvalidClient, "client has been revoked")
	}

	if !a.redirectURIs.IsAllowed(input.RedirectURI) {
		return "", domain.NewOAuthError(domain.ErrInvalidRequest, "redirect_uri is not allowed")
	}

	if input.CodeChallenge == "" {
		return "", domain.NewOAuthError(domain.ErrInvalidRequest, "code_challenge is required")
	}
	if !domain.ValidCodeChallengeMethod(input.CodeChallengeMethod) {
		return "", domain.NewOAuthError(domain.ErrInvalidRequest, "unsupported code_challenge_method")
	}

	code, err := a.secretService.GenerateCode()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	record := &domain.AuthorizationCode{
		Code:                code,
		ClientID:            input.ClientID,
		RedirectURI:         input.RedirectURI,
		Scope:               input.Scope,
		CodeChallenge:       input.CodeChallenge,
		CodeChallengeMethod: input.CodeChallengeMethod,
		CreatedAt:           now,
		ExpiresAt:           now.Add(a.config.AuthCodeExpiration),
	}

	if err := a.codeRepo.Create(ctx, record); err != nil {
		return "", err
	}

	return code, nil
}

// RedeemCode consumes an authorization code exactly once. Every failure is
// reported as invalid_grant without revealing which check failed; a used
// code stays rejected even with a matching verifier.
func (a *authorizeUseCase) RedeemCode(
	ctx context.Context,
	input *RedeemCodeInput,
) (*domain.AuthorizationCode, error) {
	record, err := a.codeRepo.Get(ctx, input.Code)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) {
			return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "unknown authorization code")
		}
		return nil, err
	}

	if record.Used {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "authorization code already used")
	}
	if record.Expired(time.Now().UTC()) {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "authorization code expired")
	}
	if record.ClientID != input.ClientID {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "client_id does not match authorization request")
	}
	if record.RedirectURI != input.RedirectURI {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "redirect_uri does not match authorization request")
	}
	if !record.VerifyChallenge(input.CodeVerifier) {
		return nil, domain.NewOAuthError(domain.ErrInvalidGrant, "code_verifier does not match code_challenge")
	}

	// Mark used before handing the record back. Records persist after use
	// for replay auditing.
	record.MarkUsed(time.Now().UTC())
	if err := a.codeRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// NewAuthorizeUseCase creates an AuthorizeUseCase with the provided dependencies.
func NewAuthorizeUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	codeRepo CodeRepository,
	secretService authService.SecretService,
	redirectURIs authService.RedirectURIPolicy,
) AuthorizeUseCase {
	return &authorizeUseCase{
		config:        cfg,
		clientRepo:    clientRepo,
		codeRepo:      codeRepo,
		secretService: secretService,
		redirectURIs:  redirectURIs,
	}
}
