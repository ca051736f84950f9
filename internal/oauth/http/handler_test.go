package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/repository"
	"github.com/simplemem/simplemem-mcp/internal/oauth/service"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

const (
	testRedirectURI  = "https://example.com/callback"
	testCodeVerifier = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
)

type handlerFixture struct {
	router    *gin.Engine
	clients   usecase.ClientUseCase
	authorize usecase.AuthorizeUseCase
	tokens    usecase.TokenUseCase
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 720 * time.Hour,
		AuthCodeExpiration:     10 * time.Minute,
	}
	logger := discardLogger()

	clientRepo, err := repository.NewFileClientRepository(dir)
	require.NoError(t, err)
	codeRepo, err := repository.NewFileCodeRepository(dir)
	require.NoError(t, err)
	keyStore, err := repository.NewFileKeyStore(dir)
	require.NoError(t, err)

	secrets := service.NewSecretService()
	tokenService := service.NewTokenService(keyStore)
	policy := service.NewRedirectURIPolicy(false, testRedirectURI)

	clients := usecase.NewClientUseCase(clientRepo, secrets)
	authorize := usecase.NewAuthorizeUseCase(cfg, clientRepo, codeRepo, secrets, policy)
	tokens := usecase.NewTokenUseCase(cfg, clientRepo, secrets, tokenService, authorize)

	discovery := NewDiscoveryHandler("")
	authorizeHandler := NewAuthorizeHandler(clients, authorize, policy, logger)
	tokenHandler := NewTokenHandler(tokens, logger)

	router := gin.New()
	router.GET("/.well-known/oauth-authorization-server", discovery.AuthorizationServerMetadataHandler)
	router.GET("/.well-known/openid-configuration", discovery.OpenIDConfigurationHandler)
	router.GET("/.well-known/oauth-protected-resource", discovery.ProtectedResourceMetadataHandler)
	router.GET("/oauth/authorize", authorizeHandler.ShowHandler)
	router.POST("/oauth/authorize", authorizeHandler.DecideHandler)
	router.POST("/oauth/token", tokenHandler.IssueHandler)

	bearer := BearerAuthMiddleware(tokens, discovery, logger)
	router.GET("/oauth/info", bearer, tokenHandler.InfoHandler)
	router.GET("/protected", bearer, func(c *gin.Context) {
		claims, _ := GetClaims(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"client_id": claims.ClientID})
	})

	return &handlerFixture{
		router:    router,
		clients:   clients,
		authorize: authorize,
		tokens:    tokens,
	}
}

func (f *handlerFixture) newClient(t *testing.T, name string) *domain.GenerateClientOutput {
	t.Helper()

	out, err := f.clients.Generate(context.Background(), &domain.GenerateClientInput{Name: name})
	require.NoError(t, err)
	return out
}

func (f *handlerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func (f *handlerFixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return f.do(req)
}

func authorizeForm(clientID, decision string) url.Values {
	return url.Values{
		"response_type":         []string{domain.ResponseTypeCode},
		"client_id":             []string{clientID},
		"redirect_uri":          []string{testRedirectURI},
		"scope":                 []string{"mcp"},
		"state":                 []string{"xyz"},
		"code_challenge":        []string{domain.ComputeS256Challenge(testCodeVerifier)},
		"code_challenge_method": []string{domain.CodeChallengeMethodS256},
		"decision":              []string{decision},
	}
}
