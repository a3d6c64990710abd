// Package events defines event types emitted over the sync lifecycle.
package events

import "time"

type EventType string

// Kafka topic for sync lifecycle events.
const Topic = "flowsight.sync.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	SyncStartedEvent      EventType = "sync.started"
	SyncCompletedEvent    EventType = "sync.completed"
	SyncFailedEvent       EventType = "sync.failed"
	WorkflowUpsertedEvent EventType = "workflow.upserted"
)

type BaseEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ConnectionID string    `json:"connection_id"`
	Provider     string    `json:"provider,omitempty"`
}

type SyncStarted struct {
	BaseEvent

	UserID string `json:"user_id"`
}

func (e SyncStarted) GetType() EventType {
	return SyncStartedEvent
}

type SyncCompleted struct {
	BaseEvent

	Synced   int           `json:"synced"`
	Duration time.Duration `json:"duration"`
}

func (e SyncCompleted) GetType() EventType {
	return SyncCompletedEvent
}

type SyncFailed struct {
	BaseEvent

	Error    string        `json:"error"`
	Duration time.Duration `json:"duration"`
}

func (e SyncFailed) GetType() EventType {
	return SyncFailedEvent
}

// WorkflowUpserted is emitted once per workflow written by a sync batch.
// Created distinguishes a fresh row from an in-place update.
type WorkflowUpserted struct {
	BaseEvent

	ExternalID string `json:"external_id"`
	Created    bool   `json:"created"`
	Migrated   bool   `json:"migrated"` // True when the write backfilled the current key
}

func (e WorkflowUpserted) GetType() EventType {
	return WorkflowUpsertedEvent
}
