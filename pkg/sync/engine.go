// Package sync implements the upsert engine that reconciles fetched provider
// workflows against the persisted record set.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowsight/flowsight/pkg/eventbus"
	"github.com/flowsight/flowsight/pkg/events"
	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/otelhelper"
	"github.com/flowsight/flowsight/pkg/persistence"
	"github.com/flowsight/flowsight/pkg/registry"
)

// Result is the aggregate outcome of one sync invocation. Synced counts
// workflows actually written; payloads skipped during normalization are
// excluded.
type Result struct {
	Success bool   `json:"success"`
	Synced  int    `json:"synced"`
	Error   string `json:"error,omitempty"`
}

type Engine struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	logger      *slog.Logger
}

func NewEngine(
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		tracer:      tracer,
		logger:      logger.With("module", "sync_engine"),
	}
}

// SyncConnection fetches the connection's workflows from its provider,
// normalizes them and reconciles each against the store. Writes that landed
// before a mid-batch failure are not rolled back; the audit log entry still
// records ERROR with a zero count.
func (e *Engine) SyncConnection(ctx context.Context, conn *models.Connection) (*Result, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "sync.connection",
		attribute.String(otelhelper.ConnectionIDKey, conn.ID),
		attribute.String(otelhelper.ProviderKey, conn.Provider),
		attribute.String(otelhelper.UserIDKey, conn.UserID),
	)
	defer span.End()

	logger := e.logger.With("connection_id", conn.ID, "provider", conn.Provider)
	startedAt := time.Now().UTC()

	adapter, err := e.registry.Resolve(conn.Provider)
	if err != nil {
		otelhelper.SetError(span, err)

		return e.fail(ctx, conn, startedAt, fmt.Errorf("resolve adapter: %w", err))
	}

	e.publish(ctx, conn, &events.SyncStarted{
		BaseEvent: e.baseEvent(events.SyncStartedEvent, conn),
		UserID:    conn.UserID,
	})

	logger.InfoContext(ctx, "Fetching workflows")

	raws, err := adapter.FetchWorkflows(ctx, conn)
	if err != nil {
		otelhelper.SetError(span, err)

		return e.fail(ctx, conn, startedAt, fmt.Errorf("fetch workflows: %w", err))
	}

	synced := 0

	for _, raw := range raws {
		workflow := adapter.NormalizeWorkflow(raw, conn.ID)
		if workflow == nil {
			logger.WarnContext(ctx, "Skipping unparseable workflow payload")

			continue
		}

		created, migrated, err := e.reconcile(ctx, conn, workflow)
		if err != nil {
			otelhelper.SetError(span, err,
				attribute.String(otelhelper.ExternalIDKey, workflow.ID),
			)

			return e.fail(ctx, conn, startedAt, fmt.Errorf("reconcile workflow %s: %w", workflow.ID, err))
		}

		e.publish(ctx, conn, &events.WorkflowUpserted{
			BaseEvent:  e.baseEvent(events.WorkflowUpsertedEvent, conn),
			ExternalID: workflow.ID,
			Created:    created,
			Migrated:   migrated,
		})

		synced++
	}

	now := time.Now().UTC()

	err = e.persistence.ConnectionRepository().TouchLastSynced(ctx, conn.ID, now)
	if err != nil {
		otelhelper.SetError(span, err)

		return e.fail(ctx, conn, startedAt, fmt.Errorf("touch connection: %w", err))
	}

	err = e.persistence.SyncLogRepository().Append(ctx, &models.SyncLog{
		ConnectionID:   conn.ID,
		UserID:         conn.UserID,
		Status:         models.SyncStatusSuccess,
		WorkflowsCount: synced,
		SyncedAt:       now,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return e.fail(ctx, conn, startedAt, fmt.Errorf("append sync log: %w", err))
	}

	e.publish(ctx, conn, &events.SyncCompleted{
		BaseEvent: e.baseEvent(events.SyncCompletedEvent, conn),
		Synced:    synced,
		Duration:  time.Since(startedAt),
	})

	logger.InfoContext(ctx, "Sync completed", "synced", synced, "fetched", len(raws))

	return &Result{Success: true, Synced: synced}, nil
}

// SyncAll runs SyncConnection over every stored connection. A failing
// connection does not stop the rest.
func (e *Engine) SyncAll(ctx context.Context) error {
	conns, err := e.persistence.ConnectionRepository().List(ctx)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}

	for _, conn := range conns {
		_, err := e.SyncConnection(ctx, conn)
		if err != nil {
			e.logger.ErrorContext(ctx, "Sync failed",
				"connection_id", conn.ID, "error", err)
		}
	}

	return nil
}

// reconcile walks the three-tier identity lookup for one normalized workflow,
// in strict order: current key, then legacy key, then create. The returned
// flags report whether a row was created and whether the write backfilled the
// current key onto a legacy row.
func (e *Engine) reconcile(ctx context.Context, conn *models.Connection, workflow *models.Workflow) (bool, bool, error) {
	records := e.persistence.RecordRepository()

	record, err := records.FindByProviderKey(ctx, conn.Provider, workflow.ID)
	if err != nil {
		return false, false, err
	}

	if record != nil {
		applyWorkflow(record, conn, workflow)

		return false, false, records.Update(ctx, record)
	}

	record, err = records.FindByLegacyKey(ctx, conn.ID, workflow.ID)
	if err != nil {
		return false, false, err
	}

	if record != nil {
		applyWorkflow(record, conn, workflow)
		record.Provider = conn.Provider
		record.ExternalID = workflow.ID

		return false, true, records.Update(ctx, record)
	}

	record = &models.WorkflowRecord{
		ConnectionID:   conn.ID,
		UserID:         conn.UserID,
		Name:           workflow.Name,
		Active:         workflow.Active,
		Provider:       conn.Provider,
		ExternalID:     workflow.ID,
		ToolWorkflowID: workflow.ID,
		Graph:          workflow.Graph,
		CreatedAt:      workflow.CreatedAt,
		UpdatedAt:      time.Now().UTC(),
	}

	return true, false, records.Create(ctx, record)
}

// fail records the aborted sync in the audit log with a zero count and
// returns the structured failure. Log-append errors are logged but do not
// mask the original failure.
func (e *Engine) fail(ctx context.Context, conn *models.Connection, startedAt time.Time, cause error) (*Result, error) {
	logErr := e.persistence.SyncLogRepository().Append(ctx, &models.SyncLog{
		ConnectionID:   conn.ID,
		UserID:         conn.UserID,
		Status:         models.SyncStatusError,
		WorkflowsCount: 0,
		ErrorMessage:   cause.Error(),
		SyncedAt:       time.Now().UTC(),
	})
	if logErr != nil {
		e.logger.ErrorContext(ctx, "Failed to append error sync log",
			"connection_id", conn.ID, "error", logErr)
	}

	e.publish(ctx, conn, &events.SyncFailed{
		BaseEvent: e.baseEvent(events.SyncFailedEvent, conn),
		Error:     cause.Error(),
		Duration:  time.Since(startedAt),
	})

	e.logger.ErrorContext(ctx, "Sync aborted",
		"connection_id", conn.ID, "provider", conn.Provider, "error", cause)

	return &Result{Success: false, Error: cause.Error()}, cause
}

func (e *Engine) baseEvent(eventType events.EventType, conn *models.Connection) events.BaseEvent {
	return events.BaseEvent{
		ID:           e.eventBus.GenerateID(),
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		ConnectionID: conn.ID,
		Provider:     conn.Provider,
	}
}

func (e *Engine) publish(ctx context.Context, conn *models.Connection, event eventbus.Event) {
	err := e.eventBus.Publish(ctx, conn.ID, event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "connection_id", conn.ID, "error", err)
	}
}

func applyWorkflow(record *models.WorkflowRecord, conn *models.Connection, workflow *models.Workflow) {
	record.Name = workflow.Name
	record.Active = workflow.Active
	record.ConnectionID = conn.ID
	record.UserID = conn.UserID
	record.Graph = workflow.Graph
	record.UpdatedAt = time.Now().UTC()
}
