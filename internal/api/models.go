package api

import (
	"time"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/service"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// Result is the generic acknowledgement body for write endpoints.
type Result struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Message is a single conversational message in an AddMessagesRequest.
type Message struct {
	Content  string `json:"content"   validate:"required"`
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	RoleType string `json:"role_type" validate:"required,oneof=user assistant system"`
	Role     string `json:"role"`
	// Timestamp defaults to the time the request is accepted
	Timestamp         *time.Time `json:"timestamp"`
	SourceDescription string     `json:"source_description"`
}

// AddMessagesRequest defines the payload for POST /messages.
type AddMessagesRequest struct {
	GroupID  string    `json:"group_id" validate:"required"`
	Messages []Message `json:"messages" validate:"required,dive"`
}

// AddEntityNodeRequest defines the payload for POST /entity-node.
type AddEntityNodeRequest struct {
	UUID    string `json:"uuid"     validate:"required"`
	GroupID string `json:"group_id" validate:"required"`
	Name    string `json:"name"     validate:"required"`
	Summary string `json:"summary"`
}

// HealthResponse is the body of GET /healthcheck.
type HealthResponse struct {
	Status string `json:"status"`
}

// WorkerStatsResponse is the body of GET /worker/stats.
type WorkerStatsResponse struct {
	State      string `json:"state"`
	Processed  uint64 `json:"processed"`
	Failed     uint64 `json:"failed"`
	Discarded  uint64 `json:"discarded"`
	QueueDepth int    `json:"queue_depth"`
}

func messagesToService(in []Message) []service.Message {
	out := make([]service.Message, len(in))
	for i, m := range in {
		out[i] = service.Message{
			Content:           m.Content,
			UUID:              m.UUID,
			Name:              m.Name,
			RoleType:          service.RoleType(m.RoleType),
			Role:              m.Role,
			SourceDescription: m.SourceDescription,
		}
		if m.Timestamp != nil {
			out[i].Timestamp = *m.Timestamp
		}
	}
	return out
}

func (r AddEntityNodeRequest) toEntityNode() graph.EntityNode {
	return graph.EntityNode{
		UUID:    r.UUID,
		GroupID: r.GroupID,
		Name:    r.Name,
		Summary: r.Summary,
	}
}

func statsToResponse(s task.Stats) WorkerStatsResponse {
	return WorkerStatsResponse{
		State:      s.State.String(),
		Processed:  s.Processed,
		Failed:     s.Failed,
		Discarded:  s.Discarded,
		QueueDepth: s.QueueDepth,
	}
}
