// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// OAuthDir is the directory holding the clients file, the authorization
	// codes file and the token signing key. Created with 0700 permissions.
	OAuthDir string
	// IssuerPathPrefix is prepended to OAuth endpoint paths in discovery
	// metadata when the server is mounted under a sub-path (e.g., "/mcp").
	IssuerPathPrefix string

	// AllowAnyRedirectURI disables redirect URI validation entirely.
	// Development use only.
	AllowAnyRedirectURI bool
	// AllowedRedirectURIs is a comma-separated exact-match allowlist.
	// When set it overrides the built-in default set.
	AllowedRedirectURIs string

	// AccessTokenExpiration is the lifetime of issued access tokens.
	AccessTokenExpiration time.Duration
	// RefreshTokenExpiration is the lifetime of issued refresh tokens.
	RefreshTokenExpiration time.Duration
	// AuthCodeExpiration is the lifetime of authorization codes.
	AuthCodeExpiration time.Duration

	// MemoryAPIEndpoint is the base URL of the downstream memory API the
	// gateway forwards to.
	MemoryAPIEndpoint string
	// MemoryAPITimeout bounds every upstream call made by the gateway.
	MemoryAPITimeout time.Duration

	// RateLimitTokenEnabled indicates whether rate limiting for the token endpoint is enabled.
	RateLimitTokenEnabled bool
	// RateLimitTokenRequestsPerSec is the number of requests allowed per second for the token endpoint.
	RateLimitTokenRequestsPerSec float64
	// RateLimitTokenBurst is the burst size for the token endpoint rate limiting.
	RateLimitTokenBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// OAuth storage and mounting
		OAuthDir:         env.GetString("OAUTH_DIR", defaultOAuthDir()),
		IssuerPathPrefix: env.GetString("OAUTH_ISSUER_PATH_PREFIX", ""),

		// Redirect URI policy
		AllowAnyRedirectURI: env.GetBool("OAUTH_ALLOW_ANY_REDIRECT_URI", false),
		AllowedRedirectURIs: env.GetString("OAUTH_ALLOWED_REDIRECT_URIS", ""),

		// Token lifetimes
		AccessTokenExpiration:  env.GetDuration("ACCESS_TOKEN_EXPIRATION_SECONDS", 3600, time.Second),
		RefreshTokenExpiration: env.GetDuration("REFRESH_TOKEN_EXPIRATION_HOURS", 720, time.Hour),
		AuthCodeExpiration:     env.GetDuration("AUTH_CODE_EXPIRATION_MINUTES", 10, time.Minute),

		// Downstream memory API
		MemoryAPIEndpoint: env.GetString("MEMORY_API_ENDPOINT", "http://localhost:8000"),
		MemoryAPITimeout:  env.GetDuration("MEMORY_API_TIMEOUT_SECONDS", 30, time.Second),

		// Rate Limiting for Token Endpoint (IP-based, unauthenticated)
		RateLimitTokenEnabled:        env.GetBool("RATE_LIMIT_TOKEN_ENABLED", true),
		RateLimitTokenRequestsPerSec: env.GetFloat64("RATE_LIMIT_TOKEN_REQUESTS_PER_SEC", 5.0),
		RateLimitTokenBurst:          env.GetInt("RATE_LIMIT_TOKEN_BURST", 10),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "simplemem"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// defaultOAuthDir resolves the default OAuth state directory under the
// user's home directory, falling back to a relative path when the home
// directory cannot be determined.
func defaultOAuthDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".simplemem-mcp", "oauth")
	}
	return filepath.Join(home, ".simplemem-mcp", "oauth")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
