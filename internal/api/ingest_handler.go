package api

import (
	"net/http"

	"github.com/phrazzld/graph-ingest/internal/api/shared"
	"github.com/phrazzld/graph-ingest/internal/service"
)

// IngestHandler handles graph write requests
type IngestHandler struct {
	ingestService service.IngestService
}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

// AddMessages handles POST /messages. Each message becomes a background
// job; the response only confirms the jobs were queued.
func (h *IngestHandler) AddMessages(w http.ResponseWriter, r *http.Request) {
	var req AddMessagesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.ingestService.AddMessages(r.Context(), req.GroupID, messagesToService(req.Messages)); err != nil {
		HandleAPIError(w, r, err, "Failed to queue messages")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, Result{
		Message: "Messages added to processing queue",
		Success: true,
	})
}

// AddEntityNode handles POST /entity-node synchronously
func (h *IngestHandler) AddEntityNode(w http.ResponseWriter, r *http.Request) {
	var req AddEntityNodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	node, err := h.ingestService.SaveEntityNode(r.Context(), req.toEntityNode())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save entity node")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, node)
}

// DeleteEntityEdge handles DELETE /entity-edge/{uuid}
func (h *IngestHandler) DeleteEntityEdge(w http.ResponseWriter, r *http.Request) {
	edgeUUID, ok := getPathParam(w, r, "uuid")
	if !ok {
		return
	}

	if _, err := h.ingestService.DeleteEntityEdge(r.Context(), edgeUUID); err != nil {
		HandleAPIError(w, r, err, "Failed to queue entity edge deletion")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, Result{
		Message: "Entity edge deletion added to processing queue",
		Success: true,
	})
}

// DeleteGroup handles DELETE /group/{group_id}
func (h *IngestHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := getPathParam(w, r, "group_id")
	if !ok {
		return
	}

	if _, err := h.ingestService.DeleteGroup(r.Context(), groupID); err != nil {
		HandleAPIError(w, r, err, "Failed to queue group deletion")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, Result{
		Message: "Group deletion added to processing queue",
		Success: true,
	})
}

// DeleteEpisode handles DELETE /episode/{uuid}
func (h *IngestHandler) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	episodeUUID, ok := getPathParam(w, r, "uuid")
	if !ok {
		return
	}

	if _, err := h.ingestService.DeleteEpisode(r.Context(), episodeUUID); err != nil {
		HandleAPIError(w, r, err, "Failed to queue episode deletion")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, Result{
		Message: "Episode deletion added to processing queue",
		Success: true,
	})
}

// Clear handles POST /clear
func (h *IngestHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if _, err := h.ingestService.ClearGraph(r.Context()); err != nil {
		HandleAPIError(w, r, err, "Failed to queue graph clear")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, Result{
		Message: "Graph clear added to processing queue",
		Success: true,
	})
}
