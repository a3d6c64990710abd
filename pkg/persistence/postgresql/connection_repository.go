package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

// ConnectionRepository handles connection-related database operations.
type ConnectionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db *sql.DB, logger *slog.Logger) *ConnectionRepository {
	return &ConnectionRepository{db: db, logger: logger}
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*models.Connection, error) {
	query := `
		SELECT id, user_id, provider, name, config, last_synced_at, created_at
		FROM connections
		WHERE id = $1
	`

	conn, err := r.scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}

	return conn, nil
}

func (r *ConnectionRepository) List(ctx context.Context) ([]*models.Connection, error) {
	query := `
		SELECT id, user_id, provider, name, config, last_synced_at, created_at
		FROM connections
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	connections := make([]*models.Connection, 0)

	for rows.Next() {
		conn, err := r.scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}

		connections = append(connections, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return connections, nil
}

func (r *ConnectionRepository) Save(ctx context.Context, conn *models.Connection) error {
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	configJSON, err := json.Marshal(conn.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal connection config: %w", err)
	}

	query := `
		INSERT INTO connections (id, user_id, provider, name, config, last_synced_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			provider = EXCLUDED.provider,
			name = EXCLUDED.name,
			config = EXCLUDED.config,
			last_synced_at = EXCLUDED.last_synced_at
	`

	_, err = r.db.ExecContext(ctx, query,
		conn.ID,
		conn.UserID,
		conn.Provider,
		conn.Name,
		configJSON,
		conn.LastSyncedAt,
		conn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}

	return nil
}

func (r *ConnectionRepository) TouchLastSynced(ctx context.Context, id string, ts time.Time) error {
	query := `UPDATE connections SET last_synced_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, ts)
	if err != nil {
		return fmt.Errorf("failed to touch connection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.ErrConnectionNotFound
	}

	return nil
}

func (r *ConnectionRepository) scanConnection(scanner interface {
	Scan(dest ...any) error
}) (*models.Connection, error) {
	var (
		conn         models.Connection
		name         sql.NullString
		configJSON   []byte
		lastSyncedAt sql.NullTime
	)

	err := scanner.Scan(
		&conn.ID,
		&conn.UserID,
		&conn.Provider,
		&name,
		&configJSON,
		&lastSyncedAt,
		&conn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	conn.Name = name.String

	if configJSON != nil {
		if err := json.Unmarshal(configJSON, &conn.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connection config: %w", err)
		}
	}

	if lastSyncedAt.Valid {
		ts := lastSyncedAt.Time
		conn.LastSyncedAt = &ts
	}

	return &conn, nil
}
