package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplemem/simplemem-mcp/internal/httputil"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

func authorizeQuery(clientID string) url.Values {
	form := authorizeForm(clientID, "")
	form.Del("decision")
	return form
}

func TestShowConsentPage(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Consent Client")

	req := httptest.NewRequest(http.MethodGet, "/oauth/authorize?"+authorizeQuery(client.ClientID).Encode(), nil)
	recorder := f.do(req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")

	body := recorder.Body.String()
	assert.Contains(t, body, "Consent Client")
	// All request parameters survive as hidden fields.
	assert.Contains(t, body, `name="client_id" value="`+client.ClientID+`"`)
	assert.Contains(t, body, `name="state" value="xyz"`)
	assert.Contains(t, body, `name="code_challenge"`)
}

func TestShowConsentPageRejections(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Consent Client")

	tests := []struct {
		name       string
		mutate     func(query url.Values)
		wantStatus int
		wantError  string
	}{
		{
			name:       "wrong response type",
			mutate:     func(q url.Values) { q.Set("response_type", "token") },
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported_response_type",
		},
		{
			name:       "missing code challenge",
			mutate:     func(q url.Values) { q.Del("code_challenge") },
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
		{
			// The authorization endpoint answers 400 for client failures;
			// 401 invalid_client is a token-endpoint status.
			name:       "unknown client",
			mutate:     func(q url.Values) { q.Set("client_id", "smc_unknown") },
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_client",
		},
		{
			name:       "disallowed redirect uri",
			mutate:     func(q url.Values) { q.Set("redirect_uri", "https://attacker.example/steal") },
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := authorizeQuery(client.ClientID)
			tt.mutate(query)

			recorder := f.do(httptest.NewRequest(http.MethodGet, "/oauth/authorize?"+query.Encode(), nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body httputil.OAuthErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestShowConsentPageRevokedClient(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Revoked Client")

	revoked, err := f.clients.Revoke(context.Background(), client.ClientID)
	require.NoError(t, err)
	require.True(t, revoked)

	req := httptest.NewRequest(http.MethodGet, "/oauth/authorize?"+authorizeQuery(client.ClientID).Encode(), nil)
	recorder := f.do(req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body httputil.OAuthErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrInvalidClient.Error(), body.Error)
}

func TestApproveIssuesCode(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Approve Client")

	recorder := f.postForm("/oauth/authorize", authorizeForm(client.ClientID, "approve"))

	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "example.com", location.Host)
	assert.Equal(t, "/callback", location.Path)
	assert.NotEmpty(t, location.Query().Get("code"))
	assert.Equal(t, "xyz", location.Query().Get("state"))
}

func TestDenyRedirectsWithAccessDenied(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Deny Client")

	recorder := f.postForm("/oauth/authorize", authorizeForm(client.ClientID, "deny"))

	require.Equal(t, http.StatusFound, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "access_denied", location.Query().Get("error"))
	assert.Equal(t, "xyz", location.Query().Get("state"))
	assert.Empty(t, location.Query().Get("code"))
}

func TestDecideRevalidatesTamperedParams(t *testing.T) {
	f := newHandlerFixture(t)
	client := f.newClient(t, "Tamper Client")

	// A tampered redirect_uri in the form submission must not be honored,
	// even on approval.
	form := authorizeForm(client.ClientID, "approve")
	form.Set("redirect_uri", "https://attacker.example/steal")

	recorder := f.postForm("/oauth/authorize", form)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body httputil.OAuthErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrInvalidRequest.Error(), body.Error)
}
