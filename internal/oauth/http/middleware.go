package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simplemem/simplemem-mcp/internal/httputil"
	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// BearerAuthMiddleware enforces bearer token authentication on protected
// routes.
//
// The middleware:
//  1. Extracts the Bearer token from the Authorization header (case-insensitive)
//  2. Verifies signature, expiry, token type and client status via the token usecase
//  3. Stores the verified claims in the request context for downstream handlers
//
// Every 401 carries a WWW-Authenticate challenge pointing at the protected
// resource metadata document (RFC 9728), which is how MCP clients locate the
// authorization server. CORS preflight requests pass through unauthenticated.
func BearerAuthMiddleware(
	tokenUseCase usecase.TokenUseCase,
	discovery *DiscoveryHandler,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		metadataURL := discovery.Issuer(c) + "/.well-known/oauth-protected-resource"

		authHeader := c.GetHeader("Authorization")
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("bearer authentication failed: missing or malformed authorization header")
			c.Header("WWW-Authenticate",
				fmt.Sprintf(`Bearer resource_metadata=%q`, metadataURL))
			c.JSON(http.StatusUnauthorized, httputil.OAuthErrorResponse{
				Error:            domain.ErrInvalidRequest.Error(),
				ErrorDescription: "missing bearer token",
			})
			c.Abort()
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		claims, err := tokenUseCase.Verify(c.Request.Context(), token)
		if err != nil {
			logger.Debug("bearer authentication failed", slog.Any("error", err))
			c.Header("WWW-Authenticate",
				fmt.Sprintf(`Bearer error="invalid_token", error_description="the access token is invalid or expired", resource_metadata=%q`,
					metadataURL))
			c.JSON(http.StatusUnauthorized, httputil.OAuthErrorResponse{
				Error:            domain.ErrInvalidToken.Error(),
				ErrorDescription: "the access token is invalid or expired",
			})
			c.Abort()
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("bearer authentication successful",
			slog.String("client_id", claims.ClientID),
			slog.String("client_name", claims.ClientName))

		c.Next()
	}
}
