package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

func main() {
	// A .env file next to the binary is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cmd := &cli.Command{
		Name:                  "postgate",
		Usage:                 "Review, edit and publish generated LinkedIn posts",
		EnableShellCompletion: true,
		DefaultCommand:        "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export OpenTelemetry traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
		},
		Commands: []*cli.Command{
			ServeCommand(),
			GenerateCommand(),
			PublishCommand(),
			TokenCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("postgate failed", "error", err)
		os.Exit(1)
	}
}
