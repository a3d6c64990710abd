// Package providers defines the adapter abstraction that turns
// provider-specific workflow payloads into the canonical graph model.
package providers

import (
	"context"
	"strconv"
	"time"

	"github.com/flowsight/flowsight/pkg/models"
)

// RawWorkflow is one undecoded provider payload, exactly as fetched.
type RawWorkflow map[string]any

// Adapter is implemented once per workflow provider. FetchWorkflows is the
// only I/O boundary; NormalizeWorkflow must be a pure function so that the
// sync engine's upsert is safe to retry.
type Adapter interface {
	// ID returns the provider identifier this adapter serves, e.g. "n8n".
	ID() string

	// FetchWorkflows returns the provider's raw workflow payloads for the
	// given connection, or an error that aborts the whole sync.
	FetchWorkflows(ctx context.Context, conn *models.Connection) ([]RawWorkflow, error)

	// NormalizeWorkflow converts one raw payload into a canonical workflow.
	// It returns nil when the payload lacks the minimum fields (id, name);
	// otherwise the result is fully populated, including the graph.
	NormalizeWorkflow(raw RawWorkflow, connectionID string) *models.Workflow
}

// StringField reads a payload field that providers serve either as a string
// or a JSON number, returning its canonical string form.
func StringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return ""
	default:
		return ""
	}
}

// TimeField parses a provider timestamp field, synthesizing the current time
// when the field is missing or malformed.
func TimeField(raw map[string]any, key string) time.Time {
	if s, ok := raw[key].(string); ok {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UTC()
		}
	}

	return time.Now().UTC()
}
