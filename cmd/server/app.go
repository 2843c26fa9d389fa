package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/graph-ingest/internal/config"
	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/platform/metrics"
	"github.com/phrazzld/graph-ingest/internal/service"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// graphEngine is a graph.Engine holding connections that must be released
type graphEngine interface {
	graph.Engine
	Close(ctx context.Context) error
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	engine  graphEngine
	metrics *metrics.Recorder

	// Background job processing
	queue  *task.JobQueue
	worker *task.Worker

	ingestService service.IngestService
}

// newApplication creates a new application instance with all dependencies initialized.
// The worker is created but not started; Run starts it.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	engine graphEngine,
	recorder *metrics.Recorder,
) (*application, error) {
	if engine == nil {
		return nil, errors.New("graph engine cannot be nil")
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		engine:  engine,
		metrics: recorder,
	}

	mux := task.NewMux()
	service.RegisterJobHandlers(mux, engine)

	app.queue = task.NewJobQueue()
	app.worker = task.NewWorker(app.queue, mux, task.WorkerConfig{
		JobTimeout: cfg.Task.JobTimeout,
	}, logger.With("component", "worker"))
	if recorder != nil {
		app.worker.SetMetrics(recorder)
	}

	var err error
	app.ingestService, err = service.NewIngestService(app.worker, engine, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest service: %w", err)
	}

	logger.Info("Application initialized successfully", "job_kinds", mux.Kinds())
	return app, nil
}

// Run starts the worker and the HTTP server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// The worker outlives ctx so that HTTP shutdown happens before it stops.
	if err := app.worker.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup stops the worker, waiting up to the configured shutdown timeout
// for the in-flight job, and then releases the graph connections.
func (app *application) cleanup() error {
	stopCtx, cancel := context.WithTimeout(context.Background(), app.config.Task.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.worker.Stop(stopCtx); err != nil {
		app.logger.Error("Worker did not stop cleanly", "error", err)
		errs = append(errs, err)
	}

	stats := app.worker.Stats()
	app.logger.Info("Worker stopped",
		"processed", stats.Processed,
		"failed", stats.Failed,
		"discarded", stats.Discarded)

	if err := app.engine.Close(context.Background()); err != nil {
		app.logger.Error("Error closing graph database connection", "error", err)
		errs = append(errs, err)
	}

	app.logger.Info("Application shutdown completed")
	return errors.Join(errs...)
}
