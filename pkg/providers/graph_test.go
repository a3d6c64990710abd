package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsight/flowsight/pkg/models"
)

func TestBuildGraphResolvesEdgesByName(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "n1", Name: "Webhook", Type: "n8n-nodes-base.webhook"},
		{ID: "n2", Name: "Slack", Type: "n8n-nodes-base.slack"},
	}
	connections := map[string]any{
		"Webhook": map[string]any{
			"main": []any{
				[]any{map[string]any{"node": "Slack"}},
			},
		},
	}

	graph := BuildGraph(nodes, connections)

	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, []models.GraphEdge{{From: "n1", To: "n2"}}, graph.Edges)
}

func TestBuildGraphDropsDanglingReferences(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "n1", Name: "Webhook", Type: "n8n-nodes-base.webhook"},
	}
	connections := map[string]any{
		"Webhook": map[string]any{
			"main": []any{
				[]any{map[string]any{"node": "Gone"}},
			},
		},
		"Also Gone": map[string]any{
			"main": []any{
				[]any{map[string]any{"node": "Webhook"}},
			},
		},
	}

	graph := BuildGraph(nodes, connections)

	assert.Empty(t, graph.Edges)
	require.Len(t, graph.Nodes, 1)
	assert.True(t, graph.HasNode("n1"))
}

func TestBuildGraphTolerantOfMalformedShapes(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "n1", Name: "Webhook", Type: "n8n-nodes-base.webhook"},
	}
	connections := map[string]any{
		"Webhook": "not a map",
		"Other":   map[string]any{"main": "not a list"},
	}

	graph := BuildGraph(nodes, connections)

	assert.Empty(t, graph.Edges)
}

func TestBuildGraphLabelFallsBackToType(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "n1", Name: "", Type: "n8n-nodes-base.googleSheets"},
	}

	graph := BuildGraph(nodes, nil)

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Google Sheets", graph.Nodes[0].Label)
}

func TestBuildGraphUnnamedNodeNeverResolvesEdges(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "n1", Name: "", Type: "n8n-nodes-base.noOp"},
		{ID: "n2", Name: "Slack", Type: "n8n-nodes-base.slack"},
	}
	connections := map[string]any{
		"Slack": map[string]any{
			"main": []any{
				// Reference without a node field must not resolve to the
				// unnamed node.
				[]any{map[string]any{"type": "main", "index": float64(0)}},
			},
		},
	}

	graph := BuildGraph(nodes, connections)

	require.Len(t, graph.Nodes, 2)
	assert.Empty(t, graph.Edges)
}

func TestStringField(t *testing.T) {
	raw := map[string]any{
		"str":   "wf-1",
		"num":   float64(42),
		"frac":  float64(1.5),
		"other": true,
	}

	assert.Equal(t, "wf-1", StringField(raw, "str"))
	assert.Equal(t, "42", StringField(raw, "num"))
	assert.Empty(t, StringField(raw, "frac"))
	assert.Empty(t, StringField(raw, "other"))
	assert.Empty(t, StringField(raw, "missing"))
}

func TestTimeField(t *testing.T) {
	raw := map[string]any{
		"good": "2024-06-01T12:00:00Z",
		"bad":  "yesterday",
	}

	parsed := TimeField(raw, "good")
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), parsed)

	synthesized := TimeField(raw, "bad")
	assert.WithinDuration(t, time.Now().UTC(), synthesized, time.Minute)

	missing := TimeField(raw, "missing")
	assert.WithinDuration(t, time.Now().UTC(), missing, time.Minute)
}
