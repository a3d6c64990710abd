package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
	"github.com/google/uuid"
)

// RecordRepository stores workflow records as one JSON file per record.
// Key lookups scan the record directory, which is fine for the local
// development and test workloads this backend serves.
type RecordRepository struct {
	root string
}

func NewRecordRepository(root string) *RecordRepository {
	return &RecordRepository{root: root}
}

func (rr *RecordRepository) dir() string {
	return filepath.Join(rr.root, "records")
}

func (rr *RecordRepository) path(id string) string {
	return filepath.Join(rr.dir(), id+".json")
}

func (rr *RecordRepository) FindByProviderKey(ctx context.Context, provider, externalID string) (*models.WorkflowRecord, error) {
	if provider == "" || externalID == "" {
		return nil, nil
	}

	return rr.find(ctx, func(record *models.WorkflowRecord) bool {
		return record.Provider == provider && record.ExternalID == externalID
	})
}

func (rr *RecordRepository) FindByLegacyKey(ctx context.Context, connectionID, toolWorkflowID string) (*models.WorkflowRecord, error) {
	if connectionID == "" || toolWorkflowID == "" {
		return nil, nil
	}

	return rr.find(ctx, func(record *models.WorkflowRecord) bool {
		return record.ConnectionID == connectionID && record.ToolWorkflowID == toolWorkflowID
	})
}

func (rr *RecordRepository) Create(ctx context.Context, record *models.WorkflowRecord) error {
	if record.IdentityState() == models.IdentityInvalid {
		return persistence.NewRecordError("Create", record.Provider, record.ExternalID, persistence.ErrInvalidIdentity)
	}

	// Reject identity collisions the way a unique constraint would.
	existing, err := rr.FindByProviderKey(ctx, record.Provider, record.ExternalID)
	if err != nil {
		return err
	}

	if existing == nil {
		existing, err = rr.FindByLegacyKey(ctx, record.ConnectionID, record.ToolWorkflowID)
		if err != nil {
			return err
		}
	}

	if existing != nil {
		return persistence.NewRecordError("Create", record.Provider, record.ExternalID, persistence.ErrDuplicateIdentity)
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	return rr.write(record)
}

func (rr *RecordRepository) Update(_ context.Context, record *models.WorkflowRecord) error {
	if _, err := os.Stat(rr.path(record.ID)); os.IsNotExist(err) {
		return persistence.NewRecordError("Update", record.Provider, record.ExternalID, persistence.ErrRecordNotFound)
	}

	return rr.write(record)
}

func (rr *RecordRepository) ListByConnection(ctx context.Context, connectionID string) ([]*models.WorkflowRecord, error) {
	all, err := rr.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.WorkflowRecord, 0, len(all))

	for _, record := range all {
		if record.ConnectionID == connectionID {
			filtered = append(filtered, record)
		}
	}

	return filtered, nil
}

func (rr *RecordRepository) ListAll(_ context.Context) ([]*models.WorkflowRecord, error) {
	files, err := rr.listFiles()
	if err != nil {
		return nil, err
	}

	records := make([]*models.WorkflowRecord, 0, len(files))

	for _, file := range files {
		record, err := rr.read(filepath.Join(rr.dir(), file))
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

func (rr *RecordRepository) find(_ context.Context, match func(*models.WorkflowRecord) bool) (*models.WorkflowRecord, error) {
	files, err := rr.listFiles()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		record, err := rr.read(filepath.Join(rr.dir(), file))
		if err != nil {
			return nil, err
		}

		if match(record) {
			return record, nil
		}
	}

	return nil, nil
}

func (rr *RecordRepository) listFiles() ([]string, error) {
	if _, err := os.Stat(rr.dir()); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fs.Glob(os.DirFS(rr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}

	return files, nil
}

func (rr *RecordRepository) read(path string) (*models.WorkflowRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	var record models.WorkflowRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record file %s: %w", path, err)
	}

	return &record, nil
}

func (rr *RecordRepository) write(record *models.WorkflowRecord) error {
	if err := os.MkdirAll(rr.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create records directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", record.ID, err)
	}

	if err := os.WriteFile(rr.path(record.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write record file %s: %w", record.ID, err)
	}

	return nil
}
