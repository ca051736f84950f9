// Package http provides the OAuth protocol endpoints: discovery metadata,
// the authorization and token endpoints and bearer token enforcement.
package http

import (
	"context"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// claimsKey is a context key type for storing verified token claims.
type claimsKey struct{}

// WithClaims stores verified token claims in the context. Called by the
// bearer middleware after successful verification.
func WithClaims(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves verified token claims from the context.
// Returns (claims, true) if present, or (nil, false) if the request did not
// pass through the bearer middleware.
func GetClaims(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*domain.TokenClaims)
	return claims, ok
}
