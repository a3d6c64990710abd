package models

import "time"

// Connection binds a user to one account on one workflow provider. Config is
// provider-specific (base URL, team id, ...); secrets live with the credential
// collaborator and never pass through this package.
type Connection struct {
	ID           string            `json:"id"       validate:"required"`
	UserID       string            `json:"user_id"  validate:"required"`
	Provider     string            `json:"provider" validate:"required"`
	Name         string            `json:"name"`
	Config       map[string]string `json:"config,omitempty"`
	LastSyncedAt *time.Time        `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
