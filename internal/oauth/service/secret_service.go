package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

const (
	clientIDBytes     = 16
	clientSecretBytes = 48
	authCodeBytes     = 32

	pbkdf2Prefix     = "$pbkdf2-sha256$"
	pbkdf2Iterations = 600_000
	pbkdf2KeyLen     = 32
	pbkdf2SaltLen    = 16
)

// secretService implements SecretService using Argon2id, with a
// PBKDF2-HMAC-SHA256 fallback when the Argon2id backend cannot be
// initialized. The fallback keeps the server usable instead of crashing on
// missing native crypto support.
type secretService struct {
	hasher *pwdhash.PasswordHasher // nil when running on the fallback backend
}

// GenerateClientID creates a prefixed high-entropy client identifier.
func (s *secretService) GenerateClientID() (string, error) {
	randomBytes := make([]byte, clientIDBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate client id")
	}
	return domain.ClientIDPrefix + base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// GenerateSecret creates a new cryptographically secure 48-byte random secret.
// The secret is base64url-encoded for easy transmission and storage.
func (s *secretService) GenerateSecret() (plainSecret string, hashedSecret string, err error) {
	randomBytes := make([]byte, clientSecretBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random secret")
	}

	plainSecret = base64.RawURLEncoding.EncodeToString(randomBytes)

	hashedSecret, err = s.HashSecret(plainSecret)
	if err != nil {
		return "", "", err
	}

	return plainSecret, hashedSecret, nil
}

// GenerateCode creates a new high-entropy opaque authorization code.
func (s *secretService) GenerateCode() (string, error) {
	randomBytes := make([]byte, authCodeBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate authorization code")
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// HashSecret hashes a plain text secret using the active backend.
func (s *secretService) HashSecret(plainSecret string) (string, error) {
	if s.hasher != nil {
		hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash secret")
		}
		return hashedSecret, nil
	}
	return s.pbkdf2Hash(plainSecret)
}

// CompareSecret performs a constant-time comparison between a plain secret
// and its hash. A hash produced by either backend verifies regardless of
// which backend is currently active, so existing registrations survive a
// backend change. Malformed hashes verify as false.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	if strings.HasPrefix(hashedSecret, pbkdf2Prefix) {
		return s.pbkdf2Compare(plainSecret, hashedSecret)
	}

	if s.hasher == nil {
		return false
	}

	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// pbkdf2Hash encodes as $pbkdf2-sha256$<iterations>$<b64 salt>$<b64 key>.
func (s *secretService) pbkdf2Hash(plainSecret string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}

	key := pbkdf2.Key([]byte(plainSecret), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return fmt.Sprintf("%s%d$%s$%s",
		pbkdf2Prefix,
		pbkdf2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (s *secretService) pbkdf2Compare(plainSecret string, hashedSecret string) bool {
	parts := strings.Split(strings.TrimPrefix(hashedSecret, pbkdf2Prefix), "$")
	if len(parts) != 3 {
		return false
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(plainSecret), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// NewSecretService creates a SecretService backed by Argon2id, degrading to
// PBKDF2-HMAC-SHA256 when the Argon2id hasher cannot be constructed. Backend
// selection failure is never surfaced to callers as anything other than a
// verification result.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return &secretService{hasher: nil}
	}

	return &secretService{hasher: hasher}
}
