// Package main implements the entry point for the graph ingest server,
// which accepts knowledge graph writes over HTTP and applies them to Neo4j
// from a single background worker.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/graph-ingest/internal/platform/metrics"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("graph ingest server failed: %v", err)
	}
}

// run wires the application from configuration and serves until a shutdown
// signal arrives or ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	engine, err := setupGraphEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger, engine, metrics.New())
	if err != nil {
		if closeErr := engine.Close(ctx); closeErr != nil {
			slog.Error("failed to close graph engine", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
