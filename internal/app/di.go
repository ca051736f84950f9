// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/gateway"
	appHTTP "github.com/simplemem/simplemem-mcp/internal/http"
	"github.com/simplemem/simplemem-mcp/internal/metrics"
	oauthHTTP "github.com/simplemem/simplemem-mcp/internal/oauth/http"
	"github.com/simplemem/simplemem-mcp/internal/oauth/repository"
	"github.com/simplemem/simplemem-mcp/internal/oauth/service"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger

	// Repositories and key storage
	clientRepo usecase.ClientRepository
	codeRepo   usecase.CodeRepository
	keyStore   service.KeySource

	// Services
	secretService   service.SecretService
	tokenService    service.TokenService
	redirectURIs    service.RedirectURIPolicy
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Use Cases
	clientUseCase    usecase.ClientUseCase
	authorizeUseCase usecase.AuthorizeUseCase
	tokenUseCase     usecase.TokenUseCase

	// Servers
	httpServer    *appHTTP.Server
	metricsServer *appHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	clientRepoInit       sync.Once
	codeRepoInit         sync.Once
	keyStoreInit         sync.Once
	secretServiceInit    sync.Once
	tokenServiceInit     sync.Once
	redirectURIsInit     sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	clientUseCaseInit    sync.Once
	authorizeUseCaseInit sync.Once
	tokenUseCaseInit     sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// ClientRepository returns the file-backed client repository.
func (c *Container) ClientRepository() (usecase.ClientRepository, error) {
	c.clientRepoInit.Do(func() {
		repo, err := repository.NewFileClientRepository(c.config.OAuthDir)
		if err != nil {
			c.initErrors["clientRepo"] = fmt.Errorf("failed to create client repository: %w", err)
			return
		}
		c.clientRepo = repo
	})
	if storedErr, exists := c.initErrors["clientRepo"]; exists {
		return nil, storedErr
	}
	return c.clientRepo, nil
}

// CodeRepository returns the file-backed authorization code repository.
func (c *Container) CodeRepository() (usecase.CodeRepository, error) {
	c.codeRepoInit.Do(func() {
		repo, err := repository.NewFileCodeRepository(c.config.OAuthDir)
		if err != nil {
			c.initErrors["codeRepo"] = fmt.Errorf("failed to create code repository: %w", err)
			return
		}
		c.codeRepo = repo
	})
	if storedErr, exists := c.initErrors["codeRepo"]; exists {
		return nil, storedErr
	}
	return c.codeRepo, nil
}

// KeyStore returns the file-backed token signing key source.
func (c *Container) KeyStore() (service.KeySource, error) {
	c.keyStoreInit.Do(func() {
		store, err := repository.NewFileKeyStore(c.config.OAuthDir)
		if err != nil {
			c.initErrors["keyStore"] = fmt.Errorf("failed to create key store: %w", err)
			return
		}
		c.keyStore = store
	})
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// SecretService returns the secret hashing service.
func (c *Container) SecretService() service.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = service.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the JWT token service.
func (c *Container) TokenService() (service.TokenService, error) {
	c.tokenServiceInit.Do(func() {
		keyStore, err := c.KeyStore()
		if err != nil {
			c.initErrors["tokenService"] = fmt.Errorf("failed to get key store for token service: %w", err)
			return
		}
		c.tokenService = service.NewTokenService(keyStore)
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// RedirectURIPolicy returns the redirect URI validation policy.
func (c *Container) RedirectURIPolicy() service.RedirectURIPolicy {
	c.redirectURIsInit.Do(func() {
		c.redirectURIs = service.NewRedirectURIPolicy(
			c.config.AllowAnyRedirectURI,
			c.config.AllowedRedirectURIs,
		)
	})
	return c.redirectURIs
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// It returns nil when metrics collection is disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// A no-op implementation is returned when metrics collection is disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// ClientUseCase returns the client management use case.
func (c *Container) ClientUseCase() (usecase.ClientUseCase, error) {
	c.clientUseCaseInit.Do(func() {
		useCase, err := c.initClientUseCase()
		if err != nil {
			c.initErrors["clientUseCase"] = err
			return
		}
		c.clientUseCase = useCase
	})
	if storedErr, exists := c.initErrors["clientUseCase"]; exists {
		return nil, storedErr
	}
	return c.clientUseCase, nil
}

// AuthorizeUseCase returns the authorization code use case.
func (c *Container) AuthorizeUseCase() (usecase.AuthorizeUseCase, error) {
	c.authorizeUseCaseInit.Do(func() {
		useCase, err := c.initAuthorizeUseCase()
		if err != nil {
			c.initErrors["authorizeUseCase"] = err
			return
		}
		c.authorizeUseCase = useCase
	})
	if storedErr, exists := c.initErrors["authorizeUseCase"]; exists {
		return nil, storedErr
	}
	return c.authorizeUseCase, nil
}

// TokenUseCase returns the token issuance use case.
func (c *Container) TokenUseCase() (usecase.TokenUseCase, error) {
	c.tokenUseCaseInit.Do(func() {
		useCase, err := c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
			return
		}
		c.tokenUseCase = useCase
	})
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server instance.
// It returns nil when metrics collection is disabled.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = appHTTP.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initClientUseCase creates the client use case with all its dependencies.
func (c *Container) initClientUseCase() (usecase.ClientUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for client use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for client use case: %w", err)
	}

	useCase := usecase.NewClientUseCase(clientRepo, c.SecretService())

	return usecase.NewInstrumentedClientUseCase(useCase, bm), nil
}

// initAuthorizeUseCase creates the authorize use case with all its dependencies.
func (c *Container) initAuthorizeUseCase() (usecase.AuthorizeUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for authorize use case: %w", err)
	}

	codeRepo, err := c.CodeRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get code repository for authorize use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for authorize use case: %w", err)
	}

	useCase := usecase.NewAuthorizeUseCase(
		c.config,
		clientRepo,
		codeRepo,
		c.SecretService(),
		c.RedirectURIPolicy(),
	)

	return usecase.NewInstrumentedAuthorizeUseCase(useCase, bm), nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (usecase.TokenUseCase, error) {
	clientRepo, err := c.ClientRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get client repository for token use case: %w", err)
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for token use case: %w", err)
	}

	authorizeUseCase, err := c.AuthorizeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorize use case for token use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := usecase.NewTokenUseCase(
		c.config,
		clientRepo,
		c.SecretService(),
		tokenService,
		authorizeUseCase,
	)

	return usecase.NewInstrumentedTokenUseCase(useCase, bm), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*appHTTP.Server, error) {
	logger := c.Logger()

	clientUseCase, err := c.ClientUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get client use case for http server: %w", err)
	}

	authorizeUseCase, err := c.AuthorizeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get authorize use case for http server: %w", err)
	}

	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for http server: %w", err)
	}

	gatewayClient := gateway.NewClient(c.config.MemoryAPIEndpoint, &http.Client{
		Timeout: c.config.MemoryAPITimeout,
	})

	handlers := appHTTP.Handlers{
		Discovery: oauthHTTP.NewDiscoveryHandler(c.config.IssuerPathPrefix),
		Authorize: oauthHTTP.NewAuthorizeHandler(clientUseCase, authorizeUseCase, c.RedirectURIPolicy(), logger),
		Token:     oauthHTTP.NewTokenHandler(tokenUseCase, logger),
		Gateway:   gateway.NewHandler(gatewayClient, logger, bm),
	}

	return appHTTP.NewServer(c.config, logger, handlers, tokenUseCase, metricsProvider), nil
}
