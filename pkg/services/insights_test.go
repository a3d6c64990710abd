package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/enrichment"
	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/persistence/file"
)

func seedRecord(t *testing.T, persist *file.Persistence, connectionID, externalID, name string) *models.WorkflowRecord {
	t.Helper()

	record := &models.WorkflowRecord{
		ConnectionID:   connectionID,
		UserID:         "user-1",
		Name:           name,
		Active:         true,
		Provider:       "n8n",
		ExternalID:     externalID,
		ToolWorkflowID: externalID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, persist.RecordRepository().Create(context.Background(), record))

	return record
}

func TestInsightsForConnection(t *testing.T) {
	ctx := context.Background()
	persist := file.NewPersistence(t.TempDir())

	seedRecord(t, persist, "conn-1", "wf-1", "Weekly Report")
	seedRecord(t, persist, "conn-1", "wf-2", "weekly report")
	seedRecord(t, persist, "conn-1", "wf-3", "Invoice payment reminder")
	seedRecord(t, persist, "conn-2", "wf-4", "Other connection workflow")

	report, err := NewInsights(persist).ForConnection(ctx, "conn-1")
	require.NoError(t, err)

	require.Len(t, report.Workflows, 3)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, enrichment.PairExactName, report.Duplicates[0].Reason)

	byName := make(map[string]WorkflowInsight)
	for _, insight := range report.Workflows {
		byName[insight.Workflow.Name] = insight
	}

	assert.Equal(t, []string{"weekly report"}, byName["Weekly Report"].SimilarNames)
	assert.Equal(t, "Finance", byName["Invoice payment reminder"].Enrichment.Domain)
	assert.Empty(t, byName["Invoice payment reminder"].SimilarNames)
}

func TestWorkflowsListByConnection(t *testing.T) {
	ctx := context.Background()
	persist := file.NewPersistence(t.TempDir())

	seedRecord(t, persist, "conn-1", "wf-1", "Lead Sync")

	workflows, err := NewWorkflows(persist).ListByConnection(ctx, "conn-1")
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, "wf-1", workflows[0].ID)
	assert.Equal(t, "n8n", workflows[0].Provider)
}

func TestWorkflowsFetchByProviderKeyNotFound(t *testing.T) {
	ctx := context.Background()
	persist := file.NewPersistence(t.TempDir())

	_, err := NewWorkflows(persist).FetchByProviderKey(ctx, "n8n", "missing")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestConnectionsCreateValidates(t *testing.T) {
	ctx := context.Background()
	persist := file.NewPersistence(t.TempDir())
	service := NewConnections(persist)

	_, err := service.Create(ctx, &models.Connection{})
	require.Error(t, err)

	created, err := service.Create(ctx, &models.Connection{
		UserID:   "user-1",
		Provider: "n8n",
		Name:     "Main n8n",
		Config:   map[string]string{"base_url": "https://n8n.example.com"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	stored, err := service.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main n8n", stored.Name)
}
