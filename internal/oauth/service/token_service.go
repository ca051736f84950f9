package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// tokenClaims is the wire representation of signed token claims.
type tokenClaims struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// tokenService signs and verifies HS256 tokens with the process signing key.
// The key is re-read from the key source on every operation so a key created
// after startup is picked up without a restart.
type tokenService struct {
	keySource KeySource
}

// Sign produces a signed compact JWT for the given claims.
func (t *tokenService) Sign(claims domain.TokenClaims) (string, error) {
	key, err := t.keySource.SigningKey()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to load signing key")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		Name: claims.ClientName,
		Type: claims.TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.ClientID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the embedded claims.
// jwt/v5 validates exp during parsing, so an expired token never reaches
// the claim mapping below.
func (t *tokenService) Parse(token string) (*domain.TokenClaims, error) {
	key, err := t.keySource.SigningKey()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load signing key")
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.New("token claims have unexpected type")
	}

	out := &domain.TokenClaims{
		ClientID:   claims.Subject,
		ClientName: claims.Name,
		TokenType:  claims.Type,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if out.ExpiresAt.IsZero() || !time.Now().UTC().Before(out.ExpiresAt) {
		return nil, apperrors.New("token is expired")
	}

	return out, nil
}

// NewTokenService creates a TokenService that signs HS256 tokens with the key
// supplied by the given source.
func NewTokenService(keySource KeySource) TokenService {
	return &tokenService{keySource: keySource}
}
