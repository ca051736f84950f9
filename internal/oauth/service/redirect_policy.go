package service

import (
	"slices"
	"strings"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

// redirectURIPolicy evaluates redirect URIs against configuration resolved
// once at startup. Precedence: allow-any override, explicit allowlist,
// built-in defaults. Exact string match only.
type redirectURIPolicy struct {
	allowAny  bool
	allowlist []string
}

// IsAllowed reports whether the exact URI may be used as a redirect target.
func (p *redirectURIPolicy) IsAllowed(uri string) bool {
	if p.allowAny {
		return true
	}
	if uri == "" {
		return false
	}
	if len(p.allowlist) > 0 {
		return slices.Contains(p.allowlist, uri)
	}
	return slices.Contains(domain.DefaultRedirectURIs, uri)
}

// NewRedirectURIPolicy creates a RedirectURIPolicy from the allow-any
// development flag and a comma-separated allowlist. An allowlist, when
// present, overrides the built-in default set.
func NewRedirectURIPolicy(allowAny bool, allowlistCSV string) RedirectURIPolicy {
	var allowlist []string
	for _, part := range strings.Split(allowlistCSV, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			allowlist = append(allowlist, trimmed)
		}
	}

	return &redirectURIPolicy{
		allowAny:  allowAny,
		allowlist: allowlist,
	}
}
