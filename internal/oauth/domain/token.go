package domain

import (
	"time"
)

// TokenClaims is the verified payload of a signed token.
type TokenClaims struct {
	ClientID   string
	ClientName string
	TokenType  string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// IssueTokenOutput is the result of a successful token endpoint call.
type IssueTokenOutput struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	Scope        string
}
