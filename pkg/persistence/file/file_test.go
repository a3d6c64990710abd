package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence"
)

func testRecord(externalID string) *models.WorkflowRecord {
	return &models.WorkflowRecord{
		ConnectionID:   "conn-1",
		UserID:         "user-1",
		Name:           "Lead Sync",
		Active:         true,
		Provider:       "n8n",
		ExternalID:     externalID,
		ToolWorkflowID: externalID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestRecordRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	persist := NewPersistence(t.TempDir())
	repo := persist.RecordRepository()

	record := testRecord("wf-1")
	require.NoError(t, repo.Create(ctx, record))
	assert.NotEmpty(t, record.ID)

	found, err := repo.FindByProviderKey(ctx, "n8n", "wf-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.ID, found.ID)

	found, err = repo.FindByLegacyKey(ctx, "conn-1", "wf-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, record.ID, found.ID)

	missing, err := repo.FindByProviderKey(ctx, "n8n", "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).RecordRepository()

	require.NoError(t, repo.Create(ctx, testRecord("wf-1")))

	err := repo.Create(ctx, testRecord("wf-1"))
	require.Error(t, err)
	assert.True(t, persistence.IsDuplicateIdentity(err))
}

func TestRecordRepositoryCreateInvalidIdentity(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).RecordRepository()

	err := repo.Create(ctx, &models.WorkflowRecord{Name: "No keys"})
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrInvalidIdentity)
}

func TestRecordRepositoryUpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).RecordRepository()

	record := testRecord("wf-1")
	record.ID = "nope"

	err := repo.Update(ctx, record)
	require.Error(t, err)
	assert.True(t, persistence.IsRecordNotFound(err))
}

func TestRecordRepositoryLegacyOnlyLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).RecordRepository()

	legacy := &models.WorkflowRecord{
		ConnectionID:   "conn-1",
		UserID:         "user-1",
		Name:           "Old",
		ToolWorkflowID: "wf-legacy",
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, legacy))

	// The current key is absent, so the provider-key lookup misses while
	// the legacy-key lookup hits.
	found, err := repo.FindByProviderKey(ctx, "n8n", "wf-legacy")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByLegacyKey(ctx, "conn-1", "wf-legacy")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.IdentityLegacyOnly, found.IdentityState())
}

func TestConnectionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).ConnectionRepository()

	conn := &models.Connection{
		ID:       "conn-1",
		UserID:   "user-1",
		Provider: "n8n",
		Name:     "Main n8n",
		Config:   map[string]string{"base_url": "https://n8n.example.com"},
	}
	require.NoError(t, repo.Save(ctx, conn))

	stored, err := repo.GetByID(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, "Main n8n", stored.Name)

	_, err = repo.GetByID(ctx, "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsConnectionNotFound(err))

	ts := time.Now().UTC()
	require.NoError(t, repo.TouchLastSynced(ctx, "conn-1", ts))

	stored, err = repo.GetByID(ctx, "conn-1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastSyncedAt)
	assert.WithinDuration(t, ts, *stored.LastSyncedAt, time.Second)

	conns, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, conns, 1)
}

func TestSyncLogRepositoryAppendOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).SyncLogRepository()

	first := &models.SyncLog{
		ConnectionID:   "conn-1",
		UserID:         "user-1",
		Status:         models.SyncStatusError,
		WorkflowsCount: 0,
		ErrorMessage:   "fetch failed",
		SyncedAt:       time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, repo.Append(ctx, first))
	assert.NotEmpty(t, first.ID)

	second := &models.SyncLog{
		ConnectionID:   "conn-1",
		UserID:         "user-1",
		Status:         models.SyncStatusSuccess,
		WorkflowsCount: 3,
		SyncedAt:       time.Now().UTC(),
	}
	require.NoError(t, repo.Append(ctx, second))

	require.NoError(t, repo.Append(ctx, &models.SyncLog{
		ConnectionID: "conn-2",
		UserID:       "user-1",
		Status:       models.SyncStatusSuccess,
		SyncedAt:     time.Now().UTC(),
	}))

	logs, err := repo.ListByConnection(ctx, "conn-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.SyncStatusError, logs[0].Status)
	assert.Equal(t, models.SyncStatusSuccess, logs[1].Status)
	assert.Equal(t, 3, logs[1].WorkflowsCount)
}

func TestPersistenceHealthCheck(t *testing.T) {
	ctx := context.Background()

	persist := NewPersistence(t.TempDir())
	require.NoError(t, persist.HealthCheck(ctx))

	missing := NewPersistence("/nonexistent/flowsight-test")
	require.Error(t, missing.HealthCheck(ctx))
}
