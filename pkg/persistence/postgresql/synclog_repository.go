package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/google/uuid"
)

// SyncLogRepository appends and lists sync audit entries.
type SyncLogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSyncLogRepository creates a new sync log repository.
func NewSyncLogRepository(db *sql.DB, logger *slog.Logger) *SyncLogRepository {
	return &SyncLogRepository{db: db, logger: logger}
}

func (r *SyncLogRepository) Append(ctx context.Context, entry *models.SyncLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if entry.SyncedAt.IsZero() {
		entry.SyncedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO sync_logs (id, connection_id, user_id, status, workflows_count, error_message, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.ConnectionID,
		entry.UserID,
		entry.Status,
		entry.WorkflowsCount,
		nullString(entry.ErrorMessage),
		entry.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", err)
	}

	return nil
}

func (r *SyncLogRepository) ListByConnection(ctx context.Context, connectionID string) ([]*models.SyncLog, error) {
	query := `
		SELECT id, connection_id, user_id, status, workflows_count, error_message, synced_at
		FROM sync_logs
		WHERE connection_id = $1
		ORDER BY synced_at
	`

	rows, err := r.db.QueryContext(ctx, query, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	entries := make([]*models.SyncLog, 0)

	for rows.Next() {
		var (
			entry        models.SyncLog
			errorMessage sql.NullString
		)

		err := rows.Scan(
			&entry.ID,
			&entry.ConnectionID,
			&entry.UserID,
			&entry.Status,
			&entry.WorkflowsCount,
			&errorMessage,
			&entry.SyncedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}

		entry.ErrorMessage = errorMessage.String
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync logs: %w", err)
	}

	return entries, nil
}
