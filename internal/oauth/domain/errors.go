package domain

import (
	"github.com/simplemem/simplemem-mcp/internal/errors"
)

// OAuth 2.0 protocol errors (RFC 6749 §5.2). Handlers map these to
// {error, error_description} bodies with the matching HTTP status.
var (
	// ErrInvalidRequest indicates a missing or malformed required parameter.
	ErrInvalidRequest = errors.New("invalid_request")

	// ErrInvalidClient indicates an unknown or revoked client, or a
	// credential mismatch.
	ErrInvalidClient = errors.New("invalid_client")

	// ErrInvalidGrant indicates a bad, expired or reused authorization code,
	// a PKCE verifier mismatch, or a bad refresh token.
	ErrInvalidGrant = errors.New("invalid_grant")

	// ErrUnsupportedGrantType indicates a grant_type the server does not implement.
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")

	// ErrUnsupportedResponseType indicates a response_type other than "code".
	ErrUnsupportedResponseType = errors.New("unsupported_response_type")

	// ErrInvalidToken indicates a bad or expired bearer token.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrServerError indicates an unexpected internal failure during issuance.
	ErrServerError = errors.New("server_error")
)

// Registry lookup errors.
var (
	// ErrClientNotFound indicates a client with the specified ID was not found.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrCodeNotFound indicates an authorization code that was never issued.
	ErrCodeNotFound = errors.Wrap(errors.ErrNotFound, "authorization code not found")
)
