package web

// CreateConnectionRequest is the payload for registering a new provider
// connection.
type CreateConnectionRequest struct {
	UserID   string            `json:"user_id"  validate:"required"`
	Provider string            `json:"provider" validate:"required"`
	Name     string            `json:"name"`
	Config   map[string]string `json:"config"`
}

// UpdateConnectionRequest carries partial updates; nil fields are left
// untouched.
type UpdateConnectionRequest struct {
	Name   *string           `json:"name,omitempty"`
	Config map[string]string `json:"config,omitempty"`
}
