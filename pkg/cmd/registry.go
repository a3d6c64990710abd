package cmd

import (
	"context"
	"log/slog"

	"github.com/flowsight/flowsight/pkg/providers/makecom"
	"github.com/flowsight/flowsight/pkg/providers/n8n"
	"github.com/flowsight/flowsight/pkg/registry"
	"github.com/flowsight/flowsight/pkg/transport"
)

// NewRegistry builds the provider adapter registry with every supported
// provider registered.
func NewRegistry(ctx context.Context, logger *slog.Logger) *registry.Registry {
	fetcher := transport.NewHTTPFetcher(0)

	reg := registry.NewRegistry(logger)
	reg.Register(n8n.NewAdapter(fetcher, logger))
	reg.Register(makecom.NewAdapter(fetcher, logger))

	logger.InfoContext(ctx, "Provider registry initialized", "providers", reg.Providers())

	return reg
}
