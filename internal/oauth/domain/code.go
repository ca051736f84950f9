package domain

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"time"
)

// AuthorizationCode holds the redemption context bound to an issued code.
// Records are kept after use for replay auditing; a used code is never
// redeemable again.
type AuthorizationCode struct {
	Code                string     `json:"code"`
	ClientID            string     `json:"client_id"`
	RedirectURI         string     `json:"redirect_uri"`
	Scope               string     `json:"scope,omitempty"`
	CodeChallenge       string     `json:"code_challenge"`
	CodeChallengeMethod string     `json:"code_challenge_method"`
	CreatedAt           time.Time  `json:"created_at"`
	ExpiresAt           time.Time  `json:"expires_at"`
	Used                bool       `json:"used"`
	UsedAt              *time.Time `json:"used_at,omitempty"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (a *AuthorizationCode) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// MarkUsed consumes the code. The first usage timestamp is preserved.
func (a *AuthorizationCode) MarkUsed(now time.Time) {
	if a.Used {
		return
	}
	a.Used = true
	a.UsedAt = &now
}

// VerifyChallenge recomputes the expected challenge from the presented
// verifier and compares it against the stored challenge in constant time.
func (a *AuthorizationCode) VerifyChallenge(verifier string) bool {
	var computed string
	switch a.CodeChallengeMethod {
	case CodeChallengeMethodS256:
		computed = ComputeS256Challenge(verifier)
	case CodeChallengeMethodPlain:
		computed = verifier
	default:
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(a.CodeChallenge)) == 1
}

// ComputeS256Challenge derives the S256 code challenge for a verifier:
// base64url without padding of the SHA-256 digest (RFC 7636 §4.2).
func ComputeS256Challenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}

// ValidCodeChallengeMethod reports whether the method is one the server supports.
func ValidCodeChallengeMethod(method string) bool {
	return method == CodeChallengeMethodS256 || method == CodeChallengeMethodPlain
}
