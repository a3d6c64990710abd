// Package makecom adapts Make (formerly Integromat) scenario payloads to the
// canonical graph model.
package makecom

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

const ProviderID = "make"

type Adapter struct {
	fetcher transport.Fetcher
	logger  *slog.Logger
}

func NewAdapter(fetcher transport.Fetcher, logger *slog.Logger) *Adapter {
	return &Adapter{
		fetcher: fetcher,
		logger:  logger.With("module", "make_adapter"),
	}
}

func (a *Adapter) ID() string {
	return ProviderID
}

// FetchWorkflows lists the scenarios of the Make team behind the connection.
func (a *Adapter) FetchWorkflows(ctx context.Context, conn *models.Connection) ([]providers.RawWorkflow, error) {
	baseURL := strings.TrimSuffix(conn.Config["base_url"], "/")
	if baseURL == "" {
		return nil, fmt.Errorf("connection %s has no base_url configured", conn.ID)
	}

	url := baseURL + "/api/v2/scenarios"
	if teamID := conn.Config["team_id"]; teamID != "" {
		url += "?teamId=" + teamID
	}

	headers := map[string]string{
		"Authorization": "Token " + conn.Config["api_key"],
	}

	body, err := a.fetcher.Fetch(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch make scenarios: %w", err)
	}

	var payload struct {
		Scenarios []providers.RawWorkflow `json:"scenarios"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode make scenario list: %w", err)
	}

	return payload.Scenarios, nil
}

// NormalizeWorkflow converts one raw Make scenario into the canonical form.
// Make reports the active flag as "enabled"; both spellings are accepted.
// Returns nil when id or name is missing.
func (a *Adapter) NormalizeWorkflow(raw providers.RawWorkflow, connectionID string) *models.Workflow {
	id := providers.StringField(raw, "id")
	name, _ := raw["name"].(string)

	if id == "" || name == "" {
		return nil
	}

	active, ok := raw["active"].(bool)
	if !ok {
		active, _ = raw["enabled"].(bool)
	}

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
	rawModules, _ := raw["modules"].([]any)

	nodes := make([]providers.NodeSpec, 0, len(rawModules))

	for _, item := range rawModules {
		module, ok := item.(map[string]any)
		if !ok {
			continue
		}

		nodes = append(nodes, providers.NodeSpec{
			ID:   providers.StringField(module, "id"),
			Name: providers.StringField(module, "name"),
			Type: providers.StringField(module, "type"),
		})
	}

	connections, _ := raw["connections"].(map[string]any)

	return providers.BuildGraph(nodes, connections)
}
