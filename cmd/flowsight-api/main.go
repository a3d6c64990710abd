package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowsight/flowsight/pkg/cmd"
	"github.com/flowsight/flowsight/pkg/log"
	"github.com/flowsight/flowsight/pkg/otelhelper"
	"github.com/flowsight/flowsight/pkg/queue"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowsight-api",
		Usage:                 "Serve the connection and workflow management API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL; when set, sync requests are queued for the worker",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Flowsight API")

			registry := cmd.NewRegistry(ctx, logger)
			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "api", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			tracer, err := otelhelper.NewTracer(ctx, "flowsight-api")
			if err != nil {
				return err
			}

			var producer *queue.Producer
			if redisURL := command.String("redis-url"); redisURL != "" {
				producer, err = queue.NewProducer(redisURL, "", logger)
				if err != nil {
					return err
				}

				defer func() {
					if err := producer.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close queue producer", "error", err)
					}
				}()
			}

			api := NewAPI(
				logger,
				persistence,
				registry,
				eventBus,
				tracer,
				producer,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
