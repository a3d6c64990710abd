// Package registry resolves provider identifiers to their adapter instances.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/flowsight/flowsight/pkg/providers"
)

type Registry struct {
	logger   *slog.Logger
	adapters map[string]providers.Adapter
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:   log,
		adapters: make(map[string]providers.Adapter),
	}
}

// Register adds an adapter under its own provider id. Registering the same
// id twice replaces the earlier adapter.
func (r *Registry) Register(adapter providers.Adapter) {
	r.adapters[adapter.ID()] = adapter
	r.logger.Info("Registered provider adapter", slog.String("provider", adapter.ID()))
}

// Resolve returns the adapter for a provider id.
func (r *Registry) Resolve(providerID string) (providers.Adapter, error) {
	adapter, ok := r.adapters[providerID]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not registered", providerID)
	}

	return adapter, nil
}

// HealthCheck reports whether at least one adapter is registered.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.adapters) == 0 {
		return "No provider adapters registered", false
	}

	return fmt.Sprintf("%d provider adapter(s) registered", len(r.adapters)), true
}

// Providers returns the registered provider ids in stable order.
func (r *Registry) Providers() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
