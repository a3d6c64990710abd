// Package main provides the Flowsight sync worker: it consumes queued sync
// requests from Redis and runs them through the sync engine.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/flowsight/flowsight/pkg/cmd"
	"github.com/flowsight/flowsight/pkg/log"
	"github.com/flowsight/flowsight/pkg/otelhelper"
)

func main() {
	command := &cli.Command{
		Name:                  "flowsight-worker",
		EnableShellCompletion: true,
		Usage:                 "Consume queued sync requests and run them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "worker-id",
				Aliases: []string{"id"},
				Usage:   "Custom worker ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("WORKER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "redis-url",
				Usage:    "Redis URL for the pending sync queue",
				Required: true,
				Sources:  cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "queue",
				Usage:   "Redis list key to consume sync requests from",
				Value:   "",
				Sources: cli.EnvVars("SYNC_QUEUE"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
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

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("flowsight-worker").With("worker_id", workerID)

			logger.InfoContext(ctx, "Initializing Flowsight Worker")

			registry := cmd.NewRegistry(ctx, logger)

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "worker", logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			tracer, err := otelhelper.NewTracer(ctx, "flowsight-worker")
			if err != nil {
				return err
			}

			worker := NewWorker(
				workerID,
				persistence,
				registry,
				eventBus,
				tracer,
				logger,
			)

			err = worker.Start(ctx, command.String("redis-url"), command.String("queue"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start sync worker", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
