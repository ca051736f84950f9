// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "simplemem-mcp",
		Usage:   "OAuth 2.0 authorization server and gateway for the SimpleMem memory API",
		Version: version,
		Commands: append(
			getSystemCommands(version),
			getClientCommands()...,
		),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
