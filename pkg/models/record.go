package models

import "time"

// IdentityState describes which generation of unique key a persisted workflow
// record currently carries. The three states form the live migration window:
// every legacy record converges to Migrated after one successful sync, and
// new records are born with both generations populated.
type IdentityState string

const (
	// IdentityLegacyOnly means only (connection_id, tool_workflow_id) is set.
	IdentityLegacyOnly IdentityState = "legacy_only"
	// IdentityMigrated means both key generations are populated and agree.
	IdentityMigrated IdentityState = "migrated"
	// IdentityCurrentOnly means only (provider, external_id) is set.
	IdentityCurrentOnly IdentityState = "current_only"
	// IdentityInvalid means neither key is fully populated. Such a record
	// violates the migration invariant and is rejected before any write.
	IdentityInvalid IdentityState = "invalid"
)

// WorkflowRecord is the persisted superset of a canonical workflow. It carries
// both generations of identity key while the unique-key scheme is migrated.
type WorkflowRecord struct {
	ID           string `json:"id"`
	ConnectionID string `json:"connection_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`

	// Current key: (provider, external_id).
	Provider   string `json:"provider,omitempty"`
	ExternalID string `json:"external_id,omitempty"`

	// Legacy key: (connection_id, tool_workflow_id).
	ToolWorkflowID string `json:"tool_workflow_id,omitempty"`

	Graph     *Graph    `json:"graph,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdentityState returns the record's position in the key migration.
func (r *WorkflowRecord) IdentityState() IdentityState {
	hasCurrent := r.Provider != "" && r.ExternalID != ""
	hasLegacy := r.ConnectionID != "" && r.ToolWorkflowID != ""

	switch {
	case hasCurrent && hasLegacy:
		return IdentityMigrated
	case hasLegacy:
		return IdentityLegacyOnly
	case hasCurrent:
		return IdentityCurrentOnly
	default:
		return IdentityInvalid
	}
}

// KeysAgree reports whether the two key generations, where populated, point at
// the same underlying provider workflow.
func (r *WorkflowRecord) KeysAgree() bool {
	if r.ExternalID != "" && r.ToolWorkflowID != "" {
		return r.ExternalID == r.ToolWorkflowID
	}

	return true
}

// Canonical converts the persisted record back into the canonical workflow
// shape consumed by the presentation layer.
func (r *WorkflowRecord) Canonical() *Workflow {
	externalID := r.ExternalID
	if externalID == "" {
		externalID = r.ToolWorkflowID
	}

	return &Workflow{
		ID:           externalID,
		Name:         r.Name,
		Active:       r.Active,
		Provider:     r.Provider,
		ConnectionID: r.ConnectionID,
		Graph:        r.Graph,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
