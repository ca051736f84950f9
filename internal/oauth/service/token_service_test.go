package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// staticKeySource returns a fixed key for tests.
type staticKeySource struct {
	key []byte
}

func (s *staticKeySource) SigningKey() ([]byte, error) {
	return s.key, nil
}

func testTokenService() TokenService {
	return NewTokenService(&staticKeySource{key: []byte("test-signing-key-0123456789abcdef")})
}

func TestTokenSignParseRoundTrip(t *testing.T) {
	svc := testTokenService()
	now := time.Now().UTC().Truncate(time.Second)

	signed, err := svc.Sign(domain.TokenClaims{
		ClientID:   "smc_abc",
		ClientName: "openai",
		TokenType:  domain.TokenTypeAccess,
		IssuedAt:   now,
		ExpiresAt:  now.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "smc_abc", claims.ClientID)
	assert.Equal(t, "openai", claims.ClientName)
	assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt)
}

func TestTokenParseFailures(t *testing.T) {
	svc := testTokenService()
	now := time.Now().UTC()

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.Parse("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		signed, err := svc.Sign(domain.TokenClaims{
			ClientID:  "smc_abc",
			TokenType: domain.TokenTypeAccess,
			IssuedAt:  now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		})
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewTokenService(&staticKeySource{key: []byte("a-completely-different-key")})
		signed, err := other.Sign(domain.TokenClaims{
			ClientID:  "smc_abc",
			TokenType: domain.TokenTypeAccess,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.Error(t, err)
	})

	t.Run("rejects non-HMAC algorithm", func(t *testing.T) {
		// alg=none style tokens must never verify.
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "smc_abc",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.Error(t, err)
	})
}
