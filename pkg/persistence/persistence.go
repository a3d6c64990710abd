// Package persistence provides the keyed-store abstraction the sync engine
// reconciles against. Implementations must enforce uniqueness on both key
// generations so that concurrent writers surface a conflict instead of a
// silent duplicate.
package persistence

import (
	"context"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
)

type Persistence interface {
	RecordRepository() RecordRepository
	ConnectionRepository() ConnectionRepository
	SyncLogRepository() SyncLogRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// RecordRepository stores persisted workflow records under two generations of
// unique key: the current (provider, external_id) and the legacy
// (connection_id, tool_workflow_id).
type RecordRepository interface {
	// FindByProviderKey looks a record up by the current key. Returns
	// (nil, nil) when no record matches.
	FindByProviderKey(ctx context.Context, provider, externalID string) (*models.WorkflowRecord, error)

	// FindByLegacyKey looks a record up by the legacy key. Returns
	// (nil, nil) when no record matches.
	FindByLegacyKey(ctx context.Context, connectionID, toolWorkflowID string) (*models.WorkflowRecord, error)

	// Create inserts a new record. A record whose identity collides with an
	// existing row fails with ErrDuplicateIdentity.
	Create(ctx context.Context, record *models.WorkflowRecord) error

	// Update rewrites an existing record in place by its row id.
	Update(ctx context.Context, record *models.WorkflowRecord) error

	ListByConnection(ctx context.Context, connectionID string) ([]*models.WorkflowRecord, error)
	ListAll(ctx context.Context) ([]*models.WorkflowRecord, error)
}

type ConnectionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Connection, error)
	List(ctx context.Context) ([]*models.Connection, error)
	Save(ctx context.Context, conn *models.Connection) error

	// TouchLastSynced records the completion time of the latest sync.
	TouchLastSynced(ctx context.Context, id string, ts time.Time) error
}

// SyncLogRepository is append-only: one entry per sync invocation, never
// updated or deleted.
type SyncLogRepository interface {
	Append(ctx context.Context, entry *models.SyncLog) error
	ListByConnection(ctx context.Context, connectionID string) ([]*models.SyncLog, error)
}
