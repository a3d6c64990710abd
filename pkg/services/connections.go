package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

type Connections struct {
	persistence persistence.Persistence
	validator   *validator.Validate
}

func NewConnections(persistence persistence.Persistence) *Connections {
	return &Connections{
		persistence: persistence,
		validator:   validator.New(),
	}
}

func (s *Connections) List(ctx context.Context) ([]*models.Connection, error) {
	conns, err := s.persistence.ConnectionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return conns, nil
}

func (s *Connections) FetchByID(ctx context.Context, id string) (*models.Connection, error) {
	conn, err := s.persistence.ConnectionRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Create validates and stores a new connection, assigning its id.
func (s *Connections) Create(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	conn.ID = uuid.New().String()
	conn.CreatedAt = time.Now().UTC()

	err := s.validator.Struct(conn)
	if err != nil {
		return nil, fmt.Errorf("invalid connection: %w", err)
	}

	err = s.persistence.ConnectionRepository().Save(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return conn, nil
}

// Update replaces an existing connection's mutable fields.
func (s *Connections) Update(ctx context.Context, id string, conn *models.Connection) (*models.Connection, error) {
	existing, err := s.persistence.ConnectionRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	conn.ID = id
	conn.CreatedAt = existing.CreatedAt
	conn.LastSyncedAt = existing.LastSyncedAt

	err = s.validator.Struct(conn)
	if err != nil {
		return nil, fmt.Errorf("invalid connection: %w", err)
	}

	err = s.persistence.ConnectionRepository().Save(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}

	return conn, nil
}
