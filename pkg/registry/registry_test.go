package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/flowsight/flowsight/pkg/models"
	"github.com/flowsight/flowsight/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	id string
}

func (s *stubAdapter) ID() string { return s.id }

func (s *stubAdapter) FetchWorkflows(_ context.Context, _ *models.Connection) ([]providers.RawWorkflow, error) {
	return nil, nil
}

func (s *stubAdapter) NormalizeWorkflow(_ providers.RawWorkflow, _ string) *models.Workflow {
	return nil
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := NewRegistry(slog.Default())
	reg.Register(&stubAdapter{id: "n8n"})
	reg.Register(&stubAdapter{id: "make"})

	adapter, err := reg.Resolve("n8n")
	require.NoError(t, err)
	assert.Equal(t, "n8n", adapter.ID())

	assert.Equal(t, []string{"make", "n8n"}, reg.Providers())
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	reg := NewRegistry(slog.Default())

	adapter, err := reg.Resolve("zapier")
	assert.Error(t, err)
	assert.Nil(t, adapter)
	assert.Contains(t, err.Error(), "not registered")
}
