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
	"github.com/google/uuid"
)

// SyncLogRepository appends sync log entries as one JSON file per entry.
type SyncLogRepository struct {
	root string
}

func NewSyncLogRepository(root string) *SyncLogRepository {
	return &SyncLogRepository{root: root}
}

func (sr *SyncLogRepository) dir() string {
	return filepath.Join(sr.root, "synclogs")
}

func (sr *SyncLogRepository) Append(_ context.Context, entry *models.SyncLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	if err := os.MkdirAll(sr.dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create synclogs directory: %w", err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sync log %s: %w", entry.ID, err)
	}

	path := filepath.Join(sr.dir(), entry.ID+".json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write sync log file %s: %w", entry.ID, err)
	}

	return nil
}

func (sr *SyncLogRepository) ListByConnection(_ context.Context, connectionID string) ([]*models.SyncLog, error) {
	if _, err := os.Stat(sr.dir()); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fs.Glob(os.DirFS(sr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list sync log files: %w", err)
	}

	entries := make([]*models.SyncLog, 0, len(files))

	for _, file := range files {
		data, err := os.ReadFile(filepath.Join(sr.dir(), file))
		if err != nil {
			return nil, fmt.Errorf("failed to read sync log file %s: %w", file, err)
		}

		var entry models.SyncLog
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode sync log file %s: %w", file, err)
		}

		if entry.ConnectionID == connectionID {
			entries = append(entries, &entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SyncedAt.Before(entries[j].SyncedAt)
	})

	return entries, nil
}
