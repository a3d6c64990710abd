// Package cmd holds shared wiring used by every binary: persistence, event
// bus and provider registry construction.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flowsight/flowsight/pkg/persistence"
	"github.com/flowsight/flowsight/pkg/persistence/file"
	"github.com/flowsight/flowsight/pkg/persistence/postgresql"
)

// NewPersistence picks the persistence implementation from the database URL
// scheme: postgres/postgresql use the SQL store, anything else falls back to
// the file store.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parseScheme(databaseURL) {
	case "postgres", "postgresql":
		persist, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic("failed to initialize postgresql persistence: " + err.Error())
		}

		return persist
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parseScheme(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
