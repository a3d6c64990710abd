package models

import "time"

// SyncStatus is the recorded outcome of one sync invocation.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusPartial SyncStatus = "PARTIAL"
	SyncStatusError   SyncStatus = "ERROR"
)

// SyncLog is one append-only audit entry, written exactly once per sync
// invocation. WorkflowsCount counts workflows actually written; skipped
// unparseable payloads are excluded.
type SyncLog struct {
	ID             string     `json:"id"`
	ConnectionID   string     `json:"connection_id"`
	UserID         string     `json:"user_id"`
	Status         SyncStatus `json:"status"`
	WorkflowsCount int        `json:"workflows_count"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	SyncedAt       time.Time  `json:"synced_at"`
}
