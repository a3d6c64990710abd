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
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

const recordColumns = `
	id
  , connection_id
  , user_id
  , name
  , active
  , provider
  , external_id
  , tool_workflow_id
  , graph
  , created_at
  , updated_at
`

// RecordRepository handles workflow-record database operations. Both identity
// keys are backed by partial unique indexes, so a racing writer gets a
// constraint violation instead of a duplicate row.
type RecordRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRecordRepository creates a new workflow-record repository.
func NewRecordRepository(db *sql.DB, logger *slog.Logger) *RecordRepository {
	return &RecordRepository{db: db, logger: logger}
}

func (r *RecordRepository) FindByProviderKey(ctx context.Context, provider, externalID string) (*models.WorkflowRecord, error) {
	if provider == "" || externalID == "" {
		return nil, nil
	}

	query := `SELECT ` + recordColumns + `
		FROM workflow_records
		WHERE provider = $1 AND external_id = $2
	`

	record, err := r.scanRecord(r.db.QueryRowContext(ctx, query, provider, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, persistence.NewRecordError("FindByProviderKey", provider, externalID, err)
	}

	return record, nil
}

func (r *RecordRepository) FindByLegacyKey(ctx context.Context, connectionID, toolWorkflowID string) (*models.WorkflowRecord, error) {
	if connectionID == "" || toolWorkflowID == "" {
		return nil, nil
	}

	query := `SELECT ` + recordColumns + `
		FROM workflow_records
		WHERE connection_id = $1 AND tool_workflow_id = $2
	`

	record, err := r.scanRecord(r.db.QueryRowContext(ctx, query, connectionID, toolWorkflowID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to find record by legacy key: %w", err)
	}

	return record, nil
}

// Create inserts a new record. Identity collisions map to
// persistence.ErrDuplicateIdentity.
func (r *RecordRepository) Create(ctx context.Context, record *models.WorkflowRecord) error {
	if record.IdentityState() == models.IdentityInvalid {
		return persistence.NewRecordError("Create", record.Provider, record.ExternalID, persistence.ErrInvalidIdentity)
	}

	now := time.Now().UTC()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	record.UpdatedAt = now

	graphJSON, err := marshalGraph(record.Graph)
	if err != nil {
		return persistence.NewRecordError("Create", record.Provider, record.ExternalID, err)
	}

	query := `
		INSERT INTO workflow_records
			(id, connection_id, user_id, name, active, provider, external_id, tool_workflow_id, graph, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.ConnectionID,
		record.UserID,
		record.Name,
		record.Active,
		nullString(record.Provider),
		nullString(record.ExternalID),
		nullString(record.ToolWorkflowID),
		graphJSON,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return persistence.NewRecordError("Create", record.Provider, record.ExternalID, persistence.ErrDuplicateIdentity)
		}

		return persistence.NewRecordError("Create", record.Provider, record.ExternalID, err)
	}

	return nil
}

// Update rewrites an existing record in place by its row id.
func (r *RecordRepository) Update(ctx context.Context, record *models.WorkflowRecord) error {
	record.UpdatedAt = time.Now().UTC()

	graphJSON, err := marshalGraph(record.Graph)
	if err != nil {
		return persistence.NewRecordError("Update", record.Provider, record.ExternalID, err)
	}

	query := `
		UPDATE workflow_records SET
			connection_id = $2,
			user_id = $3,
			name = $4,
			active = $5,
			provider = $6,
			external_id = $7,
			tool_workflow_id = $8,
			graph = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ConnectionID,
		record.UserID,
		record.Name,
		record.Active,
		nullString(record.Provider),
		nullString(record.ExternalID),
		nullString(record.ToolWorkflowID),
		graphJSON,
		record.UpdatedAt,
	)
	if err != nil {
		return persistence.NewRecordError("Update", record.Provider, record.ExternalID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return persistence.NewRecordError("Update", record.Provider, record.ExternalID, persistence.ErrRecordNotFound)
	}

	return nil
}

func (r *RecordRepository) ListByConnection(ctx context.Context, connectionID string) ([]*models.WorkflowRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM workflow_records
		WHERE connection_id = $1
		ORDER BY created_at
	`

	return r.queryRecords(ctx, query, connectionID)
}

func (r *RecordRepository) ListAll(ctx context.Context) ([]*models.WorkflowRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM workflow_records
		ORDER BY created_at
	`

	return r.queryRecords(ctx, query)
}

func (r *RecordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*models.WorkflowRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow records: %w", err)
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.WorkflowRecord, 0)

	for rows.Next() {
		record, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow record: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflow records: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) scanRecord(scanner interface {
	Scan(dest ...any) error
}) (*models.WorkflowRecord, error) {
	var (
		record                             models.WorkflowRecord
		provider, externalID, toolWorkflow sql.NullString
		graphJSON                          []byte
	)

	err := scanner.Scan(
		&record.ID,
		&record.ConnectionID,
		&record.UserID,
		&record.Name,
		&record.Active,
		&provider,
		&externalID,
		&toolWorkflow,
		&graphJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Provider = provider.String
	record.ExternalID = externalID.String
	record.ToolWorkflowID = toolWorkflow.String

	if graphJSON != nil {
		var graph models.Graph
		if err := json.Unmarshal(graphJSON, &graph); err != nil {
			return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
		}

		record.Graph = &graph
	}

	return &record, nil
}

func marshalGraph(graph *models.Graph) ([]byte, error) {
	if graph == nil {
		return nil, nil
	}

	data, err := json.Marshal(graph)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}

	return data, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
