// Package usecase implements business logic orchestration for the
// authorization server: client registry management, authorization code
// issuance and redemption, and token issuance and verification.
package usecase

import (
	"context"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// ClientRepository defines persistence operations for registered clients.
type ClientRepository interface {
	// Get returns the client with the given id or domain.ErrClientNotFound.
	Get(ctx context.Context, clientID string) (*domain.Client, error)

	// List returns all clients ordered by creation time.
	List(ctx context.Context) ([]*domain.Client, error)

	// Create persists a new client record.
	Create(ctx context.Context, client *domain.Client) error

	// Update rewrites an existing client record.
	Update(ctx context.Context, client *domain.Client) error
}

// CodeRepository defines persistence operations for authorization codes.
type CodeRepository interface {
	// Get returns the record for a code or domain.ErrCodeNotFound.
	Get(ctx context.Context, code string) (*domain.AuthorizationCode, error)

	// Create persists a newly issued code.
	Create(ctx context.Context, record *domain.AuthorizationCode) error

	// Update rewrites an existing code record.
	Update(ctx context.Context, record *domain.AuthorizationCode) error
}

// ClientUseCase manages the registered client lifecycle.
type ClientUseCase interface {
	// Generate registers a new client and returns the plaintext secret
	// exactly once.
	Generate(ctx context.Context, input *domain.GenerateClientInput) (*domain.GenerateClientOutput, error)

	// List returns summaries of all clients, revoked ones included.
	List(ctx context.Context) ([]domain.ClientSummary, error)

	// Get returns the summary for one client or domain.ErrClientNotFound.
	Get(ctx context.Context, clientID string) (*domain.ClientSummary, error)

	// Revoke marks a client revoked. Returns true when the client exists,
	// including when it was already revoked (idempotent).
	Revoke(ctx context.Context, clientID string) (bool, error)

	// Verify checks client credentials. Returns false for unknown or
	// revoked clients and for secret mismatches.
	Verify(ctx context.Context, clientID, clientSecret string) (bool, error)
}

// IssueCodeInput carries the validated parameters of an approved
// authorization request.
type IssueCodeInput struct {
	ClientID            string
	RedirectURI         string
	Scope               string
	CodeChallenge       string
	CodeChallengeMethod string
}

// RedeemCodeInput carries the parameters presented at the token endpoint for
// the authorization_code grant.
type RedeemCodeInput struct {
	Code         string
	ClientID     string
	RedirectURI  string
	CodeVerifier string
}

// AuthorizeUseCase manages the authorization code lifecycle.
type AuthorizeUseCase interface {
	// IssueCode validates the request and persists a new single-use code.
	IssueCode(ctx context.Context, input *IssueCodeInput) (string, error)

	// RedeemCode consumes a code exactly once after verifying the issuance
	// context and the PKCE verifier. All failures are invalid_grant-class.
	RedeemCode(ctx context.Context, input *RedeemCodeInput) (*domain.AuthorizationCode, error)
}

// ExchangeCodeInput carries the token endpoint parameters for the
// authorization_code grant.
type ExchangeCodeInput struct {
	ClientID     string
	ClientSecret string // optional: public PKCE clients present no secret
	Code         string
	RedirectURI  string
	CodeVerifier string
	Scope        string // fallback when the code carries no scope
}

// TokenUseCase implements the token endpoint grants and bearer verification.
type TokenUseCase interface {
	// ClientCredentials verifies the client secret and mints an access
	// token. No refresh token is issued for this grant.
	ClientCredentials(ctx context.Context, clientID, clientSecret, scope string) (*domain.IssueTokenOutput, error)

	// ExchangeCode redeems an authorization code and mints an access token
	// plus a refresh token.
	ExchangeCode(ctx context.Context, input *ExchangeCodeInput) (*domain.IssueTokenOutput, error)

	// Refresh validates a refresh token, mints a new access token and
	// rotates the refresh token.
	Refresh(ctx context.Context, refreshToken string) (*domain.IssueTokenOutput, error)

	// Verify validates an access token. It fails closed with
	// domain.ErrInvalidToken on any signature, expiry or claim problem and
	// re-resolves the client so revocation is immediately effective.
	Verify(ctx context.Context, token string) (*domain.TokenClaims, error)
}
