package makecom

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/providers"
)

type stubFetcher struct {
	body    []byte
	lastURL string
	headers map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string, headers map[string]string) ([]byte, error) {
	f.lastURL = url
	f.headers = headers

	return f.body, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchWorkflows(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{"scenarios":[{"id":123,"name":"Order Sync"}]}`)}
	adapter := NewAdapter(fetcher, testLogger())

	conn := &models.Connection{
		ID:       "conn-1",
		Provider: ProviderID,
		Config: map[string]string{
			"base_url": "https://eu1.make.com",
			"team_id":  "42",
			"api_key":  "secret",
		},
	}

	raws, err := adapter.FetchWorkflows(context.Background(), conn)
	require.NoError(t, err)
	require.Len(t, raws, 1)

	assert.Equal(t, "https://eu1.make.com/api/v2/scenarios?teamId=42", fetcher.lastURL)
	assert.Equal(t, "Token secret", fetcher.headers["Authorization"])
}

func TestNormalizeWorkflowEnabledAlias(t *testing.T) {
	adapter := NewAdapter(&stubFetcher{}, testLogger())

	workflow := adapter.NormalizeWorkflow(providers.RawWorkflow{
		"id":      float64(123),
		"name":    "Order Sync",
		"enabled": true,
	}, "conn-1")
	require.NotNil(t, workflow)
	assert.True(t, workflow.Active)
	assert.Equal(t, "123", workflow.ID)

	workflow = adapter.NormalizeWorkflow(providers.RawWorkflow{
		"id":      float64(124),
		"name":    "Disabled",
		"enabled": false,
	}, "conn-1")
	require.NotNil(t, workflow)
	assert.False(t, workflow.Active)
}

func TestNormalizeWorkflowActiveWins(t *testing.T) {
	adapter := NewAdapter(&stubFetcher{}, testLogger())

	workflow := adapter.NormalizeWorkflow(providers.RawWorkflow{
		"id":      "s-1",
		"name":    "Order Sync",
		"active":  true,
		"enabled": false,
	}, "conn-1")
	require.NotNil(t, workflow)
	assert.True(t, workflow.Active)
}

func TestNormalizeWorkflowModules(t *testing.T) {
	adapter := NewAdapter(&stubFetcher{}, testLogger())

	raw := providers.RawWorkflow{
		"id":   "s-1",
		"name": "Router Scenario",
		"modules": []any{
			map[string]any{"id": float64(1), "name": "Watch Rows", "type": "google-sheets.trigger"},
			map[string]any{"id": float64(2), "name": "Router", "type": "builtin.router"},
			map[string]any{"id": float64(3), "name": "Post Message", "type": "slack.post"},
		},
		"connections": map[string]any{
			"Watch Rows": map[string]any{
				"main": []any{
					[]any{map[string]any{"node": "Router"}},
				},
			},
			"Router": map[string]any{
				"main": []any{
					[]any{map[string]any{"node": "Post Message"}},
				},
			},
		},
	}

	workflow := adapter.NormalizeWorkflow(raw, "conn-1")
	require.NotNil(t, workflow)
	require.NotNil(t, workflow.Graph)

	require.Len(t, workflow.Graph.Nodes, 3)
	assert.Equal(t, models.NodeKindTrigger, workflow.Graph.Nodes[0].Kind)
	assert.Equal(t, models.NodeKindRouter, workflow.Graph.Nodes[1].Kind)
	assert.Equal(t, models.NodeKindAction, workflow.Graph.Nodes[2].Kind)

	assert.ElementsMatch(t, []models.GraphEdge{
		{From: "1", To: "2"},
		{From: "2", To: "3"},
	}, workflow.Graph.Edges)
}

func TestNormalizeWorkflowMissingFields(t *testing.T) {
	adapter := NewAdapter(&stubFetcher{}, testLogger())

	assert.Nil(t, adapter.NormalizeWorkflow(providers.RawWorkflow{"name": "No ID"}, "conn-1"))
	assert.Nil(t, adapter.NormalizeWorkflow(providers.RawWorkflow{"id": "s-1"}, "conn-1"))
}
