package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/trace"

	"github.com/flowsight/flowsight/pkg/eventbus"
	"github.com/flowsight/flowsight/pkg/persistence"
	"github.com/flowsight/flowsight/pkg/queue"
	"github.com/flowsight/flowsight/pkg/registry"
	flowsync "github.com/flowsight/flowsight/pkg/sync"
)

type Worker struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	engine      *flowsync.Engine
}

func NewWorker(
	id string,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Worker {
	logger = logger.With("module", "flowsight-worker", "worker_id", id)

	return &Worker{
		id:          id,
		logger:      logger,
		persistence: persistence,
		engine:      flowsync.NewEngine(persistence, registry, eventBus, tracer, logger),
	}
}

func (w *Worker) Start(ctx context.Context, redisURL, queueName string) error {
	w.logger.InfoContext(ctx, "Starting sync worker", "worker_id", w.id)

	consumer, err := queue.NewConsumer(redisURL, queueName, w.logger)
	if err != nil {
		return err
	}

	err = consumer.Start(ctx, w.handleSyncRequest)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	return consumer.Stop(ctx)
}

func (w *Worker) handleSyncRequest(ctx context.Context, request queue.SyncRequest) error {
	conn, err := w.persistence.ConnectionRepository().GetByID(ctx, request.ConnectionID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Unknown connection in sync request",
			"connection_id", request.ConnectionID, "error", err)

		return err
	}

	result, err := w.engine.SyncConnection(ctx, conn)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Sync request completed",
		"connection_id", conn.ID, "synced", result.Synced)

	return nil
}
