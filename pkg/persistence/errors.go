// Package persistence provides standardized error types for store operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound indicates no workflow record matched the given key.
	ErrRecordNotFound = errors.New("workflow record not found")

	// ErrConnectionNotFound indicates an unknown connection id.
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrDuplicateIdentity indicates a write collided with an existing record
	// on either identity key. Concurrent syncs of the same connection surface
	// here instead of creating a second row.
	ErrDuplicateIdentity = errors.New("workflow identity already exists")

	// ErrInvalidIdentity indicates a record that satisfies neither key
	// generation and must not be written.
	ErrInvalidIdentity = errors.New("workflow record carries no usable identity key")
)

// RecordError wraps record-store failures with operation context.
type RecordError struct {
	Op         string // Operation being performed, e.g. "Create", "FindByProviderKey"
	Provider   string
	ExternalID string
	Err        error
}

func (e *RecordError) Error() string {
	if e.Provider != "" || e.ExternalID != "" {
		return fmt.Sprintf("%s failed for workflow %s/%s: %v", e.Op, e.Provider, e.ExternalID, e.Err)
	}

	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRecordError creates a record error with key context.
func NewRecordError(op, provider, externalID string, err error) *RecordError {
	return &RecordError{
		Op:         op,
		Provider:   provider,
		ExternalID: externalID,
		Err:        err,
	}
}

// IsRecordNotFound checks if an error indicates a missing workflow record.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsConnectionNotFound checks if an error indicates a missing connection.
func IsConnectionNotFound(err error) bool {
	return errors.Is(err, ErrConnectionNotFound)
}

// IsDuplicateIdentity checks if an error indicates an identity-key collision.
func IsDuplicateIdentity(err error) bool {
	return errors.Is(err, ErrDuplicateIdentity)
}
