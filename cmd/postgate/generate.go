package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dukex/postgate/pkg/cmd"
	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/log"
	"github.com/dukex/postgate/pkg/models"
	"github.com/urfave/cli/v3"
)

func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Run the post generator once and print the post",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "date",
				Usage: "Date to generate the post for (YYYY-MM-DD), defaults to today",
			},
		}, generatorFlags()...),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			shutdownTracing, err := cmd.SetupTracing(ctx, command.Bool("otel"), "postgate", slog.Default())
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer shutdownTracing(context.WithoutCancel(ctx))

			gen, err := cmd.NewGenerator(generatorConfig(command), slog.Default())
			if err != nil {
				return fmt.Errorf("invalid generator configuration: %w", err)
			}

			date := command.String("date")
			if date == "" {
				date = time.Now().Format(generator.DateLayout)
			}

			ctx = log.WithContext(ctx, log.WithModule("generate"))

			return runGenerate(ctx, gen, date, os.Stdout, os.Stderr)
		},
	}
}

type postGenerator interface {
	Generate(ctx context.Context, date string) (*models.Generation, error)
}

// runGenerate prints the post to out and any fallback note to diag.
func runGenerate(ctx context.Context, gen postGenerator, date string, out, diag io.Writer) error {
	result, err := gen.Generate(ctx, date)
	if err != nil {
		return err
	}

	if result.Fallback {
		log.FromContext(ctx, nil).WarnContext(ctx, "Generator unavailable, printing fallback post", "date", date)
	}

	if result.Note != "" {
		_, _ = fmt.Fprintln(diag, "note:", result.Note)
	}

	_, err = fmt.Fprintln(out, result.Text)

	return err
}
