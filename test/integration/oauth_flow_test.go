// Package integration provides end-to-end tests for the OAuth authorization
// server: client registration, the authorization code flow with PKCE, token
// issuance and refresh, and the bearer-protected API gateway.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplemem/simplemem-mcp/internal/app"
	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
)

const (
	testRedirectURI = "https://example.com/callback"

	// RFC 7636 appendix B vector.
	testCodeVerifier  = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	testCodeChallenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
)

// testContext holds the wired application and state shared across steps.
type testContext struct {
	container *app.Container
	server    *httptest.Server
	upstream  *httptest.Server
	client    *domain.GenerateClientOutput
}

func newTestContext(t *testing.T) *testContext {
	t.Helper()

	// Fake memory API upstream that echoes a fixed payload.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"upstream":"ok"}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		LogLevel:               "error",
		OAuthDir:               t.TempDir(),
		AllowedRedirectURIs:    testRedirectURI,
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 720 * time.Hour,
		AuthCodeExpiration:     10 * time.Minute,
		MemoryAPIEndpoint:      upstream.URL,
		MemoryAPITimeout:       5 * time.Second,
	}

	container := app.NewContainer(cfg)
	t.Cleanup(func() { _ = container.Shutdown(context.Background()) })

	httpServer, err := container.HTTPServer()
	require.NoError(t, err)

	server := httptest.NewServer(httpServer.GetHandler())
	t.Cleanup(server.Close)

	clientUseCase, err := container.ClientUseCase()
	require.NoError(t, err)

	client, err := clientUseCase.Generate(context.Background(), &domain.GenerateClientInput{
		Name:        "integration-test",
		Description: "end-to-end flow",
	})
	require.NoError(t, err)

	return &testContext{
		container: container,
		server:    server,
		upstream:  upstream,
		client:    client,
	}
}

// noRedirectClient returns an HTTP client that surfaces 302 responses instead
// of following them, so redirect parameters can be inspected.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (tc *testContext) postForm(t *testing.T, path string, form url.Values) (*http.Response, []byte) {
	t.Helper()

	resp, err := noRedirectClient().Post(
		tc.server.URL+path,
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, body
}

// approveAuthorization walks the consent flow and returns the issued code.
func (tc *testContext) approveAuthorization(t *testing.T) string {
	t.Helper()

	resp, _ := tc.postForm(t, "/oauth/authorize", url.Values{
		"response_type":         []string{"code"},
		"client_id":             []string{tc.client.ClientID},
		"redirect_uri":          []string{testRedirectURI},
		"state":                 []string{"xyz"},
		"code_challenge":        []string{testCodeChallenge},
		"code_challenge_method": []string{"S256"},
		"decision":              []string{"approve"},
	})

	require.Equal(t, http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", location.Query().Get("state"))

	code := location.Query().Get("code")
	require.NotEmpty(t, code)

	return code
}

func decodeToken(t *testing.T, body []byte) (accessToken, refreshToken string) {
	t.Helper()

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "Bearer", payload.TokenType)
	assert.Positive(t, payload.ExpiresIn)

	return payload.AccessToken, payload.RefreshToken
}

func TestAuthorizationCodeFlow(t *testing.T) {
	tc := newTestContext(t)

	// Consent page renders for a valid request.
	resp, err := http.Get(tc.server.URL + "/oauth/authorize?" + url.Values{
		"response_type":         []string{"code"},
		"client_id":             []string{tc.client.ClientID},
		"redirect_uri":          []string{testRedirectURI},
		"code_challenge":        []string{testCodeChallenge},
		"code_challenge_method": []string{"S256"},
	}.Encode())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Approve and exchange the code.
	code := tc.approveAuthorization(t)

	tokenResp, body := tc.postForm(t, "/oauth/token", url.Values{
		"grant_type":    []string{"authorization_code"},
		"code":          []string{code},
		"client_id":     []string{tc.client.ClientID},
		"redirect_uri":  []string{testRedirectURI},
		"code_verifier": []string{testCodeVerifier},
	})
	require.Equal(t, http.StatusOK, tokenResp.StatusCode, string(body))

	accessToken, refreshToken := decodeToken(t, body)
	require.NotEmpty(t, refreshToken)

	// The code is single-use.
	replayResp, replayBody := tc.postForm(t, "/oauth/token", url.Values{
		"grant_type":    []string{"authorization_code"},
		"code":          []string{code},
		"client_id":     []string{tc.client.ClientID},
		"redirect_uri":  []string{testRedirectURI},
		"code_verifier": []string{testCodeVerifier},
	})
	assert.Equal(t, http.StatusBadRequest, replayResp.StatusCode)
	assert.Contains(t, string(replayBody), "invalid_grant")

	// The access token reaches the gateway.
	req, err := http.NewRequest(http.MethodGet, tc.server.URL+"/api/stats", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	apiResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	apiBody, err := io.ReadAll(apiResp.Body)
	require.NoError(t, err)
	require.NoError(t, apiResp.Body.Close())

	assert.Equal(t, http.StatusOK, apiResp.StatusCode)
	assert.Contains(t, string(apiBody), "upstream")

	// Refresh rotates the token pair.
	refreshResp, refreshBody := tc.postForm(t, "/oauth/token", url.Values{
		"grant_type":    []string{"refresh_token"},
		"refresh_token": []string{refreshToken},
	})
	require.Equal(t, http.StatusOK, refreshResp.StatusCode, string(refreshBody))

	newAccess, newRefresh := decodeToken(t, refreshBody)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.NotEqual(t, refreshToken, newRefresh)
}

func TestClientCredentialsFlowAndRevocation(t *testing.T) {
	tc := newTestContext(t)

	resp, body := tc.postForm(t, "/oauth/token", url.Values{
		"grant_type":    []string{"client_credentials"},
		"client_id":     []string{tc.client.ClientID},
		"client_secret": []string{tc.client.ClientSecret},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	accessToken, refreshToken := decodeToken(t, body)
	assert.Empty(t, refreshToken)

	// Token works before revocation.
	req, err := http.NewRequest(http.MethodGet, tc.server.URL+"/oauth/info", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	infoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, infoResp.Body.Close())
	require.Equal(t, http.StatusOK, infoResp.StatusCode)

	// Revoking the client invalidates outstanding tokens immediately.
	clientUseCase, err := tc.container.ClientUseCase()
	require.NoError(t, err)

	found, err := clientUseCase.Revoke(context.Background(), tc.client.ClientID)
	require.NoError(t, err)
	require.True(t, found)

	revokedResp, err := http.DefaultClient.Do(req.Clone(context.Background()))
	require.NoError(t, err)
	require.NoError(t, revokedResp.Body.Close())
	assert.Equal(t, http.StatusUnauthorized, revokedResp.StatusCode)
	assert.Contains(t, revokedResp.Header.Get("WWW-Authenticate"), "invalid_token")
}

func TestDiscoveryDocuments(t *testing.T) {
	tc := newTestContext(t)

	resp, err := http.Get(tc.server.URL + "/.well-known/oauth-authorization-server")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var metadata struct {
		Issuer                string   `json:"issuer"`
		TokenEndpoint         string   `json:"token_endpoint"`
		AuthorizationEndpoint string   `json:"authorization_endpoint"`
		GrantTypesSupported   []string `json:"grant_types_supported"`
	}
	require.NoError(t, json.Unmarshal(body, &metadata))

	assert.NotEmpty(t, metadata.Issuer)
	assert.Contains(t, metadata.TokenEndpoint, "/oauth/token")
	assert.Contains(t, metadata.AuthorizationEndpoint, "/oauth/authorize")
	assert.Contains(t, metadata.GrantTypesSupported, "authorization_code")
}
