package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/graph-ingest/internal/config"
	"github.com/phrazzld/graph-ingest/internal/platform/graphdb"
)

// connectTimeout bounds driver creation plus the initial index build
const connectTimeout = 30 * time.Second

// setupGraphEngine connects to Neo4j and makes sure the indices exist.
// Returns the engine if successful, or an error if the connection fails.
func setupGraphEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*graphdb.Neo4jEngine, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	engine, err := graphdb.Open(ctx, cfg.Neo4j, logger.With("component", "graphdb"))
	if err != nil {
		return nil, err
	}

	if err := engine.BuildIndices(ctx); err != nil {
		if closeErr := engine.Close(ctx); closeErr != nil {
			logger.Error("failed to close graph engine", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to prepare graph database: %w", err)
	}

	logger.Info("Graph database connection established", "database", cfg.Neo4j.Database)
	return engine, nil
}
