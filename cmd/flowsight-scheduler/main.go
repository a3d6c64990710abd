// Package main provides the Flowsight scheduler: it runs periodic sync
// passes over every stored connection on a cron schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/flowsight/flowsight/pkg/cmd"
	"github.com/flowsight/flowsight/pkg/log"
	"github.com/flowsight/flowsight/pkg/otelhelper"
	"github.com/flowsight/flowsight/pkg/scheduler"
	flowsync "github.com/flowsight/flowsight/pkg/sync"
)

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "flowsight-scheduler",
		EnableShellCompletion: true,
		Usage:                 "Run periodic syncs over all connections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "cron",
				Usage:   "Cron expression for the sync pass",
				Value:   "*/15 * * * *",
				Sources: cli.EnvVars("SYNC_CRON"),
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

			logger.InfoContext(ctx, "Initializing Flowsight Scheduler")

			registry := cmd.NewRegistry(ctx, logger)

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "scheduler", logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			tracer, err := otelhelper.NewTracer(ctx, "flowsight-scheduler")
			if err != nil {
				return err
			}

			engine := flowsync.NewEngine(persistence, registry, eventBus, tracer, logger)

			sched, err := scheduler.NewScheduler(command.String("cron"), logger)
			if err != nil {
				return err
			}

			err = sched.Start(ctx, engine.SyncAll)
			if err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			<-sigChan
			logger.InfoContext(ctx, "Shutting down scheduler...")

			return sched.Stop(ctx)
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
