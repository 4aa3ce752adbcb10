package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dukex/postgate/pkg/cmd"
	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/ledger"
	"github.com/dukex/postgate/pkg/log"
	"github.com/dukex/postgate/pkg/services"
	"github.com/dukex/postgate/pkg/web"
	"github.com/urfave/cli/v3"
)

const defaultPort = 3000

func ServeCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to run the review server on",
			Value:   defaultPort,
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:    "event-bus",
			Usage:   "Event bus type (gochannel, kafka)",
			Value:   cmd.EventBusGoChannel,
			Sources: cli.EnvVars("EVENT_BUS_TYPE"),
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "Kafka brokers for the kafka event bus",
			Sources: cli.EnvVars("KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "initial-text",
			Usage:   "Draft text a new session starts with",
			Value:   services.DefaultInitialText,
			Sources: cli.EnvVars("INITIAL_POST_TEXT"),
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the review server",
		Flags:   slices.Concat(flags, generatorFlags(), publisherFlags()),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing postgate")

			shutdownTracing, err := cmd.SetupTracing(ctx, command.Bool("otel"), "postgate", logger)
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer shutdownTracing(context.WithoutCancel(ctx))

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.StringSlice("kafka-brokers"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			feed := web.NewEventFeed(0)
			if err := feed.Register(eventBus); err != nil {
				return fmt.Errorf("failed to register event feed: %w", err)
			}

			if err := eventBus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}

			review, err := newReview(command, eventBus, slog.Default())
			if err != nil {
				return err
			}

			api := NewAPI(logger, review, feed)

			return api.Start(command.Int("port"))
		},
	}
}

func newReview(command *cli.Command, events eventbus.EventPublisher, logger *slog.Logger) (*services.Review, error) {
	gen, err := cmd.NewGenerator(generatorConfig(command), logger)
	if err != nil {
		return nil, fmt.Errorf("invalid generator configuration: %w", err)
	}

	pub := cmd.NewPublisher(publisherOptions(command), logger)

	return services.NewReview(command.String("initial-text"), gen, pub, ledger.New(), events, logger), nil
}
