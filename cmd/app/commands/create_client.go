package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/simplemem/simplemem-mcp/internal/oauth/domain"
	"github.com/simplemem/simplemem-mcp/internal/oauth/usecase"
)

// RunCreateClient registers a new OAuth client and prints its credentials.
// Outputs the client ID and plaintext secret in either text or JSON format.
// The secret is shown exactly once and cannot be recovered later.
func RunCreateClient(
	ctx context.Context,
	clientUseCase usecase.ClientUseCase,
	logger *slog.Logger,
	name string,
	description string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new client", slog.String("name", name))

	input := &domain.GenerateClientInput{
		Name:        name,
		Description: description,
	}

	output, err := clientUseCase.Generate(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputCredentialsJSON(output, io.Writer)
	} else {
		outputCredentialsText(output, io.Writer)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ClientID),
		slog.String("name", name),
	)

	return nil
}

// outputCredentialsText outputs the result in human-readable text format.
func outputCredentialsText(output *domain.GenerateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", output.ClientID)
	_, _ = fmt.Fprintf(writer, "Client Secret: %s\n", output.ClientSecret)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

// outputCredentialsJSON outputs the result in JSON format for machine consumption.
func outputCredentialsJSON(output *domain.GenerateClientOutput, writer io.Writer) {
	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
