// Package service provides technical services for the authorization server:
// credential generation and hashing, token signing and redirect URI policy.
package service

import (
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// SecretService defines operations for client credential generation and
// validation. Implementations must use cryptographically secure random
// generation and an adaptive password hash for secrets.
type SecretService interface {
	// GenerateClientID creates a new prefixed high-entropy client identifier.
	GenerateClientID() (string, error)

	// GenerateSecret creates a new cryptographically secure random secret.
	// Returns both the plain text secret (to be shared with the client once)
	// and the hashed version (to be stored).
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// GenerateCode creates a new high-entropy opaque authorization code.
	GenerateCode() (string, error)

	// HashSecret hashes a plain text secret using the active hashing backend.
	HashSecret(plainSecret string) (string, error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns false for malformed or foreign-scheme hashes; it never panics
	// and never reports the reason for a mismatch.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// KeySource supplies the process-wide symmetric signing key.
type KeySource interface {
	// SigningKey returns the key used to sign and verify tokens, creating
	// it on first use.
	SigningKey() ([]byte, error)
}

// TokenService signs and parses time-bounded token claim sets.
type TokenService interface {
	// Sign produces a signed compact token for the given claims.
	Sign(claims domain.TokenClaims) (string, error)

	// Parse verifies the signature and expiry of a token and returns its
	// claims. It returns an error for any malformed, tampered or expired
	// token; it never panics.
	Parse(token string) (*domain.TokenClaims, error)
}

// RedirectURIPolicy decides whether a client-supplied callback URL is permitted.
type RedirectURIPolicy interface {
	// IsAllowed reports whether the exact URI may be used as a redirect target.
	IsAllowed(uri string) bool
}
