package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplemem/simplemem-mcp/internal/oauth/http/dto"
)

func TestAuthorizationServerMetadata(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil)
	req.Host = "auth.example.com"
	recorder := f.do(req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var metadata dto.AuthorizationServerMetadata
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &metadata))

	assert.Equal(t, "http://auth.example.com", metadata.Issuer)
	assert.Equal(t, "http://auth.example.com/oauth/authorize", metadata.AuthorizationEndpoint)
	assert.Equal(t, "http://auth.example.com/oauth/token", metadata.TokenEndpoint)
	assert.ElementsMatch(t,
		[]string{"client_secret_basic", "client_secret_post", "none"},
		metadata.TokenEndpointAuthMethodsSupported)
	assert.ElementsMatch(t,
		[]string{"client_credentials", "authorization_code", "refresh_token"},
		metadata.GrantTypesSupported)
	assert.Equal(t, []string{"code"}, metadata.ResponseTypesSupported)
	assert.Equal(t, []string{"S256"}, metadata.CodeChallengeMethodsSupported)
}

func TestMetadataHonorsForwardedProto(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil)
	req.Host = "auth.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	recorder := f.do(req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var metadata dto.AuthorizationServerMetadata
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &metadata))
	assert.Equal(t, "https://auth.example.com", metadata.Issuer)
}

func TestOpenIDConfigurationMatchesServerMetadata(t *testing.T) {
	f := newHandlerFixture(t)

	first := f.do(httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil))
	second := f.do(httptest.NewRequest(http.MethodGet, "/.well-known/openid-configuration", nil))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestProtectedResourceMetadata(t *testing.T) {
	f := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-protected-resource", nil)
	req.Host = "auth.example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	recorder := f.do(req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var metadata dto.ProtectedResourceMetadata
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &metadata))

	assert.Equal(t, "https://auth.example.com", metadata.Resource)
	assert.Equal(t, []string{"https://auth.example.com"}, metadata.AuthorizationServers)
	assert.Equal(t, []string{"header"}, metadata.BearerMethodsSupported)
}

func TestDiscoveryPathPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	discovery := NewDiscoveryHandler("/mcp")

	router := gin.New()
	router.GET("/.well-known/oauth-authorization-server", discovery.AuthorizationServerMetadataHandler)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil)
	req.Host = "auth.example.com"
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var metadata dto.AuthorizationServerMetadata
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &metadata))

	assert.Equal(t, "http://auth.example.com/mcp", metadata.Issuer)
	assert.Equal(t, "http://auth.example.com/mcp/oauth/token", metadata.TokenEndpoint)
}
