package api

import (
	"net/http"

	"github.com/phrazzld/graph-ingest/internal/api/shared"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// StatsProvider reports the background worker's counters
type StatsProvider interface {
	Stats() task.Stats
}

// WorkerHandler serves health and worker introspection endpoints
type WorkerHandler struct {
	stats StatsProvider
}

// NewWorkerHandler creates a new WorkerHandler
func NewWorkerHandler(stats StatsProvider) *WorkerHandler {
	return &WorkerHandler{stats: stats}
}

// Healthcheck handles GET /healthcheck
func (h *WorkerHandler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "healthy"})
}

// Stats handles GET /worker/stats
func (h *WorkerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(h.stats.Stats()))
}
