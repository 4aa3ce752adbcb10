package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dukex/postgate/pkg/cmd"
	"github.com/dukex/postgate/pkg/log"
	"github.com/dukex/postgate/pkg/models"
	"github.com/urfave/cli/v3"
)

var errNoText = errors.New("either --text or --file is required")

func PublishCommand() *cli.Command {
	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Publish text to LinkedIn without the review step",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "text",
				Usage: "Post text",
			},
			&cli.StringFlag{
				Name:      "file",
				Usage:     "Read the post text from a file",
				TakesFile: true,
			},
		}, publisherFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			shutdownTracing, err := cmd.SetupTracing(ctx, command.Bool("otel"), "postgate", slog.Default())
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer shutdownTracing(context.WithoutCancel(ctx))

			text, err := postText(command.String("text"), command.String("file"))
			if err != nil {
				return err
			}

			client := cmd.NewPublisher(publisherOptions(command), slog.Default())

			ctx = log.WithContext(ctx, log.WithModule("publish"))

			return runPublish(ctx, client, text, os.Stdout)
		},
	}
}

func postText(text, file string) (string, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read post file: %w", err)
		}

		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errNoText
	}

	return text, nil
}

type postPublisher interface {
	Publish(ctx context.Context, text string) (*models.PublishOutcome, error)
}

func runPublish(ctx context.Context, client postPublisher, text string, out io.Writer) error {
	outcome, err := client.Publish(ctx, text)
	if err != nil {
		return err
	}

	log.FromContext(ctx, nil).InfoContext(ctx, "Post published", "post_id", outcome.ExternalPostID)

	_, err = fmt.Fprintf(out, "%s\n%s\n", outcome.Message, outcome.ExternalURL)

	return err
}
