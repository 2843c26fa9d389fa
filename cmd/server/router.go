package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/graph-ingest/internal/api"
	apiMiddleware "github.com/phrazzld/graph-ingest/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	ingestHandler := api.NewIngestHandler(app.ingestService)
	workerHandler := api.NewWorkerHandler(app.worker)

	// Graph writes
	r.Post("/messages", ingestHandler.AddMessages)
	r.Post("/entity-node", ingestHandler.AddEntityNode)
	r.Delete("/entity-edge/{uuid}", ingestHandler.DeleteEntityEdge)
	r.Delete("/group/{group_id}", ingestHandler.DeleteGroup)
	r.Delete("/episode/{uuid}", ingestHandler.DeleteEpisode)
	r.Post("/clear", ingestHandler.Clear)

	// Introspection
	r.Get("/healthcheck", workerHandler.Healthcheck)
	r.Get("/worker/stats", workerHandler.Stats)
	if app.metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.metrics.Handler())
	}

	return r
}
