package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

// ConnectionRepository stores connections as one JSON file per connection.
type ConnectionRepository struct {
	root string
}

func NewConnectionRepository(root string) *ConnectionRepository {
	return &ConnectionRepository{root: root}
}

func (cr *ConnectionRepository) dir() string {
	return filepath.Join(cr.root, "connections")
}

func (cr *ConnectionRepository) path(id string) string {
	return filepath.Join(cr.dir(), id+".json")
}

func (cr *ConnectionRepository) GetByID(_ context.Context, id string) (*models.Connection, error) {
	data, err := os.ReadFile(cr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to read connection %s: %w", id, err)
	}

	var conn models.Connection
	if err := json.Unmarshal(data, &conn); err != nil {
		return nil, fmt.Errorf("failed to decode connection %s: %w", id, err)
	}

	return &conn, nil
}

func (cr *ConnectionRepository) List(ctx context.Context) ([]*models.Connection, error) {
	if _, err := os.Stat(cr.dir()); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fs.Glob(os.DirFS(cr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list connection files: %w", err)
	}

	connections := make([]*models.Connection, 0, len(files))

	for _, file := range files {
		conn, err := cr.GetByID(ctx, file[:len(file)-len(".json")])
		if err != nil {
			return nil, err
		}

		connections = append(connections, conn)
	}

	sort.Slice(connections, func(i, j int) bool {
		return connections[i].CreatedAt.Before(connections[j].CreatedAt)
	})

	return connections, nil
}

func (cr *ConnectionRepository) Save(_ context.Context, conn *models.Connection) error {
	if err := os.MkdirAll(cr.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create connections directory: %w", err)
	}

	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(conn, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode connection %s: %w", conn.ID, err)
	}

	if err := os.WriteFile(cr.path(conn.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write connection file %s: %w", conn.ID, err)
	}

	return nil
}

func (cr *ConnectionRepository) TouchLastSynced(ctx context.Context, id string, ts time.Time) error {
	conn, err := cr.GetByID(ctx, id)
	if err != nil {
		return err
	}

	conn.LastSyncedAt = &ts

	return cr.Save(ctx, conn)
}
