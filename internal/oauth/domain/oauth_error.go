package domain

// OAuthError pairs an OAuth protocol error code with a human-readable
// description suitable for {error, error_description} responses. It wraps the
// matching sentinel so callers can branch with errors.Is while handlers
// extract the wire representation with errors.As.
type OAuthError struct {
	code        error
	description string
}

// NewOAuthError creates an OAuthError from one of the protocol sentinels.
func NewOAuthError(code error, description string) *OAuthError {
	return &OAuthError{code: code, description: description}
}

func (e *OAuthError) Error() string {
	if e.description == "" {
		return e.code.Error()
	}
	return e.code.Error() + ": " + e.description
}

// Unwrap exposes the protocol sentinel for errors.Is.
func (e *OAuthError) Unwrap() error {
	return e.code
}

// Code returns the OAuth error code (e.g. "invalid_grant").
func (e *OAuthError) Code() string {
	return e.code.Error()
}

// Description returns the human-readable error description.
func (e *OAuthError) Description() string {
	return e.description
}
