// Package http provides the HTTP server, routing and cross-cutting middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/simplemem/simplemem-mcp/internal/config"
	"github.com/simplemem/simplemem-mcp/internal/gateway"
	"github.com/simplemem/simplemem-mcp/internal/metrics"
	oauthHTTP "github.com/simplemem/simplemem-mcp/internal/oauth/http"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// ServiceName identifies this server in health responses.
const ServiceName = "simplemem-mcp-oauth"

// Handlers groups the request handlers wired into the router.
type Handlers struct {
	Discovery *oauthHTTP.DiscoveryHandler
	Authorize *oauthHTTP.AuthorizeHandler
	Token     *oauthHTTP.TokenHandler
	Gateway   *gateway.Handler
}

// Server represents the HTTP server. It owns a lifecycle context that
// background goroutines started by middleware (rate limiter cleanup) watch;
// Shutdown cancels it.
type Server struct {
	server *http.Server
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	handlers Handlers,
	tokenUseCase usecase.TokenUseCase,
	metricsProvider *metrics.Provider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	lifecycleCtx, cancel := context.WithCancel(context.Background())
	registerRoutes(lifecycleCtx, router, cfg, logger, handlers, tokenUseCase)

	return &Server{
		logger: logger,
		cancel: cancel,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// registerRoutes wires every endpoint into the router.
func registerRoutes(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.Config,
	logger *slog.Logger,
	handlers Handlers,
	tokenUseCase usecase.TokenUseCase,
) {
	router.GET("/health", healthHandler)

	// Discovery documents. The suffixed variants support RFC 8414 issuers
	// with a path component.
	router.GET("/.well-known/oauth-authorization-server",
		handlers.Discovery.AuthorizationServerMetadataHandler)
	router.GET("/.well-known/oauth-authorization-server/*path",
		handlers.Discovery.AuthorizationServerMetadataHandler)
	router.GET("/.well-known/openid-configuration",
		handlers.Discovery.OpenIDConfigurationHandler)
	router.GET("/.well-known/openid-configuration/*path",
		handlers.Discovery.OpenIDConfigurationHandler)
	router.GET("/.well-known/oauth-protected-resource",
		handlers.Discovery.ProtectedResourceMetadataHandler)
	router.GET("/.well-known/oauth-protected-resource/*path",
		handlers.Discovery.ProtectedResourceMetadataHandler)

	router.GET("/oauth/authorize", handlers.Authorize.ShowHandler)
	router.POST("/oauth/authorize", handlers.Authorize.DecideHandler)

	tokenHandlers := []gin.HandlerFunc{}
	if cfg.RateLimitTokenEnabled {
		tokenHandlers = append(tokenHandlers, oauthHTTP.TokenRateLimitMiddleware(
			ctx,
			cfg.RateLimitTokenRequestsPerSec,
			cfg.RateLimitTokenBurst,
			logger,
		))
	}
	tokenHandlers = append(tokenHandlers, handlers.Token.IssueHandler)
	router.POST("/oauth/token", tokenHandlers...)

	bearer := oauthHTTP.BearerAuthMiddleware(tokenUseCase, handlers.Discovery, logger)
	router.GET("/oauth/info", bearer, handlers.Token.InfoHandler)

	api := router.Group("/api", bearer)
	api.POST("/dialogue", handlers.Gateway.DialogueHandler)
	api.POST("/finalize", handlers.Gateway.FinalizeHandler)
	api.POST("/query", handlers.Gateway.QueryHandler)
	api.GET("/retrieve", handlers.Gateway.RetrieveHandler)
	api.GET("/stats", handlers.Gateway.StatsHandler)
	api.DELETE("/clear", handlers.Gateway.ClearHandler)
	api.GET("/health", handlers.Gateway.HealthHandler)
}

// healthHandler reports liveness of this server (not the upstream memory API).
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceName,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server and stops the background
// goroutines tied to its lifecycle.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.cancel()
	return s.server.Shutdown(ctx)
}
