// Package n8n adapts n8n workflow payloads to the canonical graph model.
package n8n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/providers"
	"github.com/flowsight/flowsight/pkg/transport"
)

const ProviderID = "n8n"

type Adapter struct {
	fetcher transport.Fetcher
	logger  *slog.Logger
}

func NewAdapter(fetcher transport.Fetcher, logger *slog.Logger) *Adapter {
	return &Adapter{
		fetcher: fetcher,
		logger:  logger.With("module", "n8n_adapter"),
	}
}

func (a *Adapter) ID() string {
	return ProviderID
}

// FetchWorkflows lists every workflow of the n8n instance behind the
// connection. n8n returns the full set in one response ({"data": [...]}).
func (a *Adapter) FetchWorkflows(ctx context.Context, conn *models.Connection) ([]providers.RawWorkflow, error) {
	baseURL := strings.TrimSuffix(conn.Config["base_url"], "/")
	if baseURL == "" {
		return nil, fmt.Errorf("connection %s has no base_url configured", conn.ID)
	}

	headers := map[string]string{
		"X-N8N-API-KEY": conn.Config["api_key"],
	}

	body, err := a.fetcher.Fetch(ctx, baseURL+"/api/v1/workflows", headers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch n8n workflows: %w", err)
	}

	var payload struct {
		Data []providers.RawWorkflow `json:"data"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode n8n workflow list: %w", err)
	}

	return payload.Data, nil
}

// NormalizeWorkflow converts one raw n8n workflow into the canonical form.
// Pure and idempotent: the same payload always yields the same node id set
// and edge set. Returns nil when id or name is missing.
func (a *Adapter) NormalizeWorkflow(raw providers.RawWorkflow, connectionID string) *models.Workflow {
	id := providers.StringField(raw, "id")
	name, _ := raw["name"].(string)

	if id == "" || name == "" {
		return nil
	}

	active, _ := raw["active"].(bool)

	return &models.Workflow{
		ID:           id,
		Name:         name,
		Active:       active,
		Provider:     ProviderID,
		ConnectionID: connectionID,
		Graph:        a.buildGraph(raw),
		CreatedAt:    providers.TimeField(raw, "createdAt"),
		UpdatedAt:    providers.TimeField(raw, "updatedAt"),
	}
}

func (a *Adapter) buildGraph(raw providers.RawWorkflow) *models.Graph {
	rawNodes, _ := raw["nodes"].([]any)

	nodes := make([]providers.NodeSpec, 0, len(rawNodes))

	for _, item := range rawNodes {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}

		nodes = append(nodes, providers.NodeSpec{
			ID:   providers.StringField(node, "id"),
			Name: providers.StringField(node, "name"),
			Type: providers.StringField(node, "type"),
		})
	}

	connections, _ := raw["connections"].(map[string]any)

	return providers.BuildGraph(nodes, connections)
}
