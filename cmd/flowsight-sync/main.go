// Package main provides the one-shot sync CLI: validate and load connection
// seed files, and run syncs without a long-lived service.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/flowsight/flowsight/pkg/cmd"
	"github.com/flowsight/flowsight/pkg/log"
	"github.com/flowsight/flowsight/pkg/otelhelper"
	"github.com/flowsight/flowsight/pkg/services"
	flowsync "github.com/flowsight/flowsight/pkg/sync"
)

func main() {
	logger := log.WithModule("sync")

	command := &cli.Command{
		Name:                  "flowsight-sync",
		Usage:                 "Validate seed files and run one-shot syncs",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a connection seed file against the schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the seed file",
						Required: true,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					data, err := os.ReadFile(command.String("file"))
					if err != nil {
						return err
					}

					conns, err := parseSeed(data)
					if err != nil {
						return err
					}

					fmt.Printf("Seed file is valid: %d connection(s)\n", len(conns))

					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Load a validated seed file into persistence",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the seed file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "database-url",
						Usage:    "Database connection URL for persistence",
						Required: true,
						Sources:  cli.EnvVars("DATABASE_URL"),
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

					data, err := os.ReadFile(command.String("file"))
					if err != nil {
						return err
					}

					conns, err := parseSeed(data)
					if err != nil {
						return err
					}

					persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
					defer func() {
						err := persistence.Close(ctx)
						if err != nil {
							logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
						}
					}()

					connectionService := services.NewConnections(persistence)

					for _, conn := range conns {
						created, err := connectionService.Create(ctx, conn)
						if err != nil {
							return fmt.Errorf("failed to seed connection %q: %w", conn.Name, err)
						}

						logger.InfoContext(ctx, "Seeded connection",
							"connection_id", created.ID, "provider", created.Provider)
					}

					return nil
				},
			},
			{
				Name:  "run",
				Usage: "Run a sync for one connection, or for all",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "connection-id",
						Usage:   "Connection to sync; omit with --all to sync everything",
						Sources: cli.EnvVars("CONNECTION_ID"),
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Sync every stored connection",
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
						Name:    "log-level",
						Usage:   "Log level (debug, info, warn, error)",
						Value:   "info",
						Sources: cli.EnvVars("LOG_LEVEL"),
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					connectionID := command.String("connection-id")
					if connectionID == "" && !command.Bool("all") {
						return errors.New("either --connection-id or --all is required")
					}

					registry := cmd.NewRegistry(ctx, logger)

					persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))
					defer func() {
						err := persistence.Close(ctx)
						if err != nil {
							logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
						}
					}()

					eventBus := cmd.NewEventBus(command.String("event-bus"), "sync", logger)
					defer func() {
						err := eventBus.Close()
						if err != nil {
							logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
						}
					}()

					tracer, err := otelhelper.NewTracer(ctx, "flowsight-sync")
					if err != nil {
						return err
					}

					engine := flowsync.NewEngine(persistence, registry, eventBus, tracer, logger)

					if command.Bool("all") {
						return engine.SyncAll(ctx)
					}

					conn, err := persistence.ConnectionRepository().GetByID(ctx, connectionID)
					if err != nil {
						return err
					}

					result, err := engine.SyncConnection(ctx, conn)
					if err != nil {
						return err
					}

					fmt.Printf("Synced %d workflow(s)\n", result.Synced)

					return nil
				},
			},
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
