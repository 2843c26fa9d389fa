package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/platform/logger"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// RoleType identifies who authored a message.
type RoleType string

// Supported message role types
const (
	RoleTypeUser      RoleType = "user"
	RoleTypeAssistant RoleType = "assistant"
	RoleTypeSystem    RoleType = "system"
)

// Valid reports whether r is one of the supported role types
func (r RoleType) Valid() bool {
	switch r {
	case RoleTypeUser, RoleTypeAssistant, RoleTypeSystem:
		return true
	}
	return false
}

// Message is a single conversational message to be ingested as an episode.
type Message struct {
	Content           string
	UUID              string
	Name              string
	RoleType          RoleType
	Role              string
	Timestamp         time.Time
	SourceDescription string
}

// ClearGraphPayload is the job payload for a full graph reset.
type ClearGraphPayload struct{}

// IngestService exposes the graph write operations offered over HTTP
type IngestService interface {
	// AddMessages enqueues one episode job per message, in order, and returns
	// the job IDs. It returns before any episode is written.
	AddMessages(ctx context.Context, groupID string, messages []Message) ([]uuid.UUID, error)

	// SaveEntityNode writes an entity node synchronously and returns it as stored.
	SaveEntityNode(ctx context.Context, node graph.EntityNode) (*graph.EntityNode, error)

	// DeleteEntityEdge enqueues removal of an entity edge.
	DeleteEntityEdge(ctx context.Context, edgeUUID string) (uuid.UUID, error)

	// DeleteGroup enqueues removal of every node in a group.
	DeleteGroup(ctx context.Context, groupID string) (uuid.UUID, error)

	// DeleteEpisode enqueues removal of an episode.
	DeleteEpisode(ctx context.Context, episodeUUID string) (uuid.UUID, error)

	// ClearGraph enqueues a full graph reset followed by an index rebuild.
	ClearGraph(ctx context.Context) (uuid.UUID, error)
}

type ingestServiceImpl struct {
	jobs   task.Enqueuer
	engine graph.Engine
	now    func() time.Time
	logger *slog.Logger
}

// NewIngestService creates a new IngestService.
// It returns an error if any of the required dependencies are nil.
func NewIngestService(
	jobs task.Enqueuer,
	engine graph.Engine,
	logger *slog.Logger,
) (IngestService, error) {
	if jobs == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "jobs cannot be nil",
		}
	}
	if engine == nil {
		return nil, &IngestServiceError{
			Operation: "create_service",
			Message:   "engine cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ingestServiceImpl{
		jobs:   jobs,
		engine: engine,
		now:    time.Now,
		logger: logger.With("component", "ingest_service"),
	}, nil
}

// AddMessages converts every message to an episode before enqueueing any of
// them, so a bad message rejects the whole batch.
func (s *ingestServiceImpl) AddMessages(
	ctx context.Context,
	groupID string,
	messages []Message,
) ([]uuid.UUID, error) {
	log := s.loggerFor(ctx)

	episodes := make([]graph.Episode, 0, len(messages))
	for i, m := range messages {
		ep, err := s.episodeFromMessage(groupID, m)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		episodes = append(episodes, ep)
	}

	ids := make([]uuid.UUID, 0, len(episodes))
	for _, ep := range episodes {
		job := task.NewJob(task.KindAddEpisode, ep)
		if err := s.jobs.Enqueue(job); err != nil {
			log.Error("failed to enqueue episode",
				"error", err,
				"group_id", groupID,
				"episode_uuid", ep.UUID,
				"enqueued", len(ids))
			return ids, NewIngestServiceError("add_messages", "failed to enqueue episode", err)
		}
		ids = append(ids, job.ID())
	}

	log.Info("messages queued",
		"group_id", groupID,
		"count", len(ids))
	return ids, nil
}

func (s *ingestServiceImpl) episodeFromMessage(groupID string, m Message) (graph.Episode, error) {
	if groupID == "" {
		return graph.Episode{}, fmt.Errorf("%w: group_id is empty", ErrInvalidMessage)
	}
	if !m.RoleType.Valid() {
		return graph.Episode{}, fmt.Errorf("%w: unsupported role_type %q", ErrInvalidMessage, m.RoleType)
	}

	id := m.UUID
	if id == "" {
		id = uuid.NewString()
	}
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	return graph.Episode{
		UUID:              id,
		GroupID:           groupID,
		Name:              m.Name,
		Body:              EpisodeBody(m),
		Source:            graph.EpisodeTypeMessage,
		SourceDescription: m.SourceDescription,
		ReferenceTime:     ts.UTC(),
	}, nil
}

// EpisodeBody renders a message as "<role>(<role_type>): <content>".
// An empty role leaves only the parenthesised role type.
func EpisodeBody(m Message) string {
	return fmt.Sprintf("%s(%s): %s", m.Role, m.RoleType, m.Content)
}

// SaveEntityNode writes the node through the engine without queueing
func (s *ingestServiceImpl) SaveEntityNode(
	ctx context.Context,
	node graph.EntityNode,
) (*graph.EntityNode, error) {
	saved, err := s.engine.SaveEntityNode(ctx, node)
	if err != nil {
		s.loggerFor(ctx).Error("failed to save entity node",
			"error", err,
			"node_uuid", node.UUID,
			"group_id", node.GroupID)
		return nil, NewIngestServiceError("save_entity_node", "failed to save entity node", err)
	}
	return saved, nil
}

func (s *ingestServiceImpl) DeleteEntityEdge(ctx context.Context, edgeUUID string) (uuid.UUID, error) {
	return s.enqueue(ctx, "delete_entity_edge", task.NewJob(task.KindDeleteEntityEdge, edgeUUID))
}

func (s *ingestServiceImpl) DeleteGroup(ctx context.Context, groupID string) (uuid.UUID, error) {
	return s.enqueue(ctx, "delete_group", task.NewJob(task.KindDeleteGroup, groupID))
}

func (s *ingestServiceImpl) DeleteEpisode(ctx context.Context, episodeUUID string) (uuid.UUID, error) {
	return s.enqueue(ctx, "delete_episode", task.NewJob(task.KindDeleteEpisode, episodeUUID))
}

func (s *ingestServiceImpl) ClearGraph(ctx context.Context) (uuid.UUID, error) {
	return s.enqueue(ctx, "clear_graph", task.NewJob(task.KindClearGraph, ClearGraphPayload{}))
}

func (s *ingestServiceImpl) enqueue(ctx context.Context, operation string, job task.Job) (uuid.UUID, error) {
	if err := s.jobs.Enqueue(job); err != nil {
		s.loggerFor(ctx).Error("failed to enqueue job",
			"error", err,
			"job_kind", job.Kind())
		return uuid.Nil, NewIngestServiceError(operation, "failed to enqueue job", err)
	}

	s.loggerFor(ctx).Info("job queued",
		"job_id", job.ID(),
		"job_kind", job.Kind())
	return job.ID(), nil
}

// loggerFor returns the service logger tagged with the request ID in ctx, if any
func (s *ingestServiceImpl) loggerFor(ctx context.Context) *slog.Logger {
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		return s.logger.With("request_id", requestID)
	}
	return s.logger
}
