package domain

import (
	"time"
)

// Client represents a registered OAuth client. The secret is stored only as a
// one-way hash; the plaintext is returned exactly once at generation time.
type Client struct {
	ID          string     `json:"client_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SecretHash  string     `json:"secret_hash"` //nolint:gosec // hashed client secret (not plaintext)
	CreatedAt   time.Time  `json:"created_at"`
	Revoked     bool       `json:"revoked"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Revoke marks the client as revoked. Revocation is one-way and idempotent:
// the first revocation timestamp is preserved on repeated calls.
func (c *Client) Revoke(now time.Time) {
	if c.Revoked {
		return
	}
	c.Revoked = true
	c.RevokedAt = &now
}

// GenerateClientInput contains the parameters for registering a new client.
type GenerateClientInput struct {
	Name        string // Human-readable name for identifying the client
	Description string // Optional free-form description
}

// GenerateClientOutput contains the result of registering a new client.
// SECURITY: ClientSecret is only returned once and must be securely
// transmitted to the client. It is never retrievable again.
type GenerateClientOutput struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
}

// ClientSummary is the externally visible view of a client. It never carries
// the secret hash.
type ClientSummary struct {
	ClientID    string     `json:"client_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Revoked     bool       `json:"revoked"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Summary converts a client record into its external view.
func (c *Client) Summary() ClientSummary {
	return ClientSummary{
		ClientID:    c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		Revoked:     c.Revoked,
		RevokedAt:   c.RevokedAt,
	}
}
