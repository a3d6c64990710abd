// Package services exposes the application-facing operations composed from
// persistence, sync and enrichment.
package services

import (
	"context"
	"fmt"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

var (
	// ErrWorkflowNotFound is returned when a workflow is not found.
	ErrWorkflowNotFound = persistence.ErrRecordNotFound
	// ErrConnectionNotFound is returned when a connection is not found.
	ErrConnectionNotFound = persistence.ErrConnectionNotFound
)

type Workflows struct {
	persistence persistence.Persistence
}

// NewWorkflows creates a new workflow query service.
func NewWorkflows(persistence persistence.Persistence) *Workflows {
	return &Workflows{
		persistence: persistence,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Workflows) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListByConnection returns a connection's synced workflows in canonical form.
func (s *Workflows) ListByConnection(ctx context.Context, connectionID string) ([]*models.Workflow, error) {
	records, err := s.persistence.RecordRepository().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(records))
	for _, record := range records {
		workflows = append(workflows, record.Canonical())
	}

	return workflows, nil
}

// FetchByProviderKey retrieves one workflow by its current identity key.
func (s *Workflows) FetchByProviderKey(ctx context.Context, provider, externalID string) (*models.Workflow, error) {
	record, err := s.persistence.RecordRepository().FindByProviderKey(ctx, provider, externalID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		return nil, ErrWorkflowNotFound
	}

	return record.Canonical(), nil
}

// SyncHistory returns the append-only sync log for a connection, newest last.
func (s *Workflows) SyncHistory(ctx context.Context, connectionID string) ([]*models.SyncLog, error) {
	logs, err := s.persistence.SyncLogRepository().ListByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync logs: %w", err)
	}

	return logs, nil
}
