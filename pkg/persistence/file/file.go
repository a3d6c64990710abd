// Package file provides a file-based persistence implementation, used by
// tests and local development.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/flowsight/flowsight/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of the file system.
type Persistence struct {
	root           string
	recordRepo     *RecordRepository
	connectionRepo *ConnectionRepository
	syncLogRepo    *SyncLogRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		recordRepo:     NewRecordRepository(cleanRoot),
		connectionRepo: NewConnectionRepository(cleanRoot),
		syncLogRepo:    NewSyncLogRepository(cleanRoot),
	}
}

func (fp *Persistence) RecordRepository() persistence.RecordRepository {
	return fp.recordRepo
}

func (fp *Persistence) ConnectionRepository() persistence.ConnectionRepository {
	return fp.connectionRepo
}

func (fp *Persistence) SyncLogRepository() persistence.SyncLogRepository {
	return fp.syncLogRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. Nothing to clean up for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
