package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// RunRevokeClient marks a client as revoked. Tokens already issued to the
// client stop working on their next verification. Returns an error when no
// client with the given ID exists.
func RunRevokeClient(
	ctx context.Context,
	clientUseCase usecase.ClientUseCase,
	logger *slog.Logger,
	clientID string,
	io IOTuple,
) error {
	logger.Info("revoking client", slog.String("client_id", clientID))

	found, err := clientUseCase.Revoke(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to revoke client: %w", err)
	}

	if !found {
		return fmt.Errorf("client not found: %s", clientID)
	}

	_, _ = fmt.Fprintf(io.Writer, "Client %s revoked.\n", clientID)

	logger.Info("client revoked successfully", slog.String("client_id", clientID))

	return nil
}
