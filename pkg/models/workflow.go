package models

import (
	"strings"
	"time"
)

// Workflow is the canonical, provider-agnostic form of a workflow. It is what
// adapters produce and what the presentation layer consumes.
type Workflow struct {
	ID           string    `json:"id"   validate:"required"` // Provider-scoped external identifier
	Name         string    `json:"name" validate:"required"`
	Active       bool      `json:"active"`
	Provider     string    `json:"provider"`
	ConnectionID string    `json:"connection_id"`
	Graph        *Graph    `json:"graph,omitempty"` // Absent for providers not yet fully wired
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExecutionStatus values reported by providers for a workflow's last run.
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// WorkflowSummary is the denormalized projection the enrichment engine
// classifies. It is derived from a canonical workflow plus whatever execution
// metadata the provider exposed; it never feeds back into sync.
type WorkflowSummary struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Active              bool       `json:"active"`
	TriggerType         string     `json:"trigger_type"`
	NodesCount          int        `json:"nodes_count"`
	HasPublicWebhook    bool       `json:"has_public_webhook"`
	LastExecutionStatus string     `json:"last_execution_status,omitempty"`
	LastExecutionDate   *time.Time `json:"last_execution_date,omitempty"`
}

// Summarize projects a canonical workflow into the shape the enrichment
// engine reads. Execution metadata is optional and filled in by the caller.
func Summarize(w *Workflow) WorkflowSummary {
	summary := WorkflowSummary{
		ID:     w.ID,
		Name:   w.Name,
		Active: w.Active,
	}

	if w.Graph != nil {
		summary.NodesCount = len(w.Graph.Nodes)
		summary.TriggerType = w.Graph.TriggerType()

		for _, node := range w.Graph.Nodes {
			if strings.Contains(strings.ToLower(node.Type), "webhook") {
				summary.HasPublicWebhook = true

				break
			}
		}
	}

	return summary
}
