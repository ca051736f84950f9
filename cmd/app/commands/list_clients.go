package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// RunListClients prints all registered clients, revoked ones included.
func RunListClients(
	ctx context.Context,
	clientUseCase usecase.ClientUseCase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	clients, err := clientUseCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	if format == "json" {
		outputClientsJSON(clients, io.Writer)
	} else {
		outputClientsText(clients, io.Writer)
	}

	logger.Info("clients listed", slog.Int("count", len(clients)))

	return nil
}

// outputClientsText outputs the client list in human-readable text format.
func outputClientsText(clients []domain.ClientSummary, writer io.Writer) {
	if len(clients) == 0 {
		_, _ = fmt.Fprintln(writer, "No clients registered.")
		return
	}

	for _, client := range clients {
		status := "Active"
		if client.Revoked {
			status = "REVOKED"
		}

		_, _ = fmt.Fprintf(writer, "%s\n", client.ClientID)
		_, _ = fmt.Fprintf(writer, "  Name:    %s\n", client.Name)
		if client.Description != "" {
			_, _ = fmt.Fprintf(writer, "  Desc:    %s\n", client.Description)
		}
		_, _ = fmt.Fprintf(writer, "  Created: %s\n", client.CreatedAt.Format(time.RFC3339))
		_, _ = fmt.Fprintf(writer, "  Status:  %s\n", status)
		_, _ = fmt.Fprintln(writer)
	}
}

// outputClientsJSON outputs the client list in JSON format.
func outputClientsJSON(clients []domain.ClientSummary, writer io.Writer) {
	jsonBytes, err := json.MarshalIndent(clients, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
