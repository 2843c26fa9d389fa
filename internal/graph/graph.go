package graph

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Common errors returned by Engine implementations
var (
	ErrNotFound      = errors.New("graph entity not found")
	ErrInvalidEntity = errors.New("invalid graph entity")
)

// EpisodeType identifies the kind of source an episode was ingested from.
type EpisodeType string

// Possible episode source types
const (
	EpisodeTypeMessage EpisodeType = "message"
	EpisodeTypeText    EpisodeType = "text"
	EpisodeTypeJSON    EpisodeType = "json"
)

// Episode is a unit of ingested content attached to a group.
type Episode struct {
	UUID              string
	GroupID           string
	Name              string
	Body              string
	Source            EpisodeType
	SourceDescription string
	ReferenceTime     time.Time
}

// Validate checks the fields required to merge an episode into the graph
func (e Episode) Validate() error {
	if e.UUID == "" {
		return fmt.Errorf("%w: episode uuid is empty", ErrInvalidEntity)
	}
	if e.GroupID == "" {
		return fmt.Errorf("%w: episode group_id is empty", ErrInvalidEntity)
	}
	if e.ReferenceTime.IsZero() {
		return fmt.Errorf("%w: episode reference time is zero", ErrInvalidEntity)
	}
	return nil
}

// EntityNode is a named entity in a group.
type EntityNode struct {
	UUID      string    `json:"uuid"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the fields required to save an entity node
func (n EntityNode) Validate() error {
	if n.UUID == "" {
		return fmt.Errorf("%w: entity node uuid is empty", ErrInvalidEntity)
	}
	if n.GroupID == "" {
		return fmt.Errorf("%w: entity node group_id is empty", ErrInvalidEntity)
	}
	if n.Name == "" {
		return fmt.Errorf("%w: entity node name is empty", ErrInvalidEntity)
	}
	return nil
}

// Engine applies mutations to the knowledge graph. Implementations must honor
// ctx cancellation so that shutdown can interrupt a stalled write.
type Engine interface {
	// AddEpisode merges an episode node keyed by its UUID.
	AddEpisode(ctx context.Context, episode Episode) error

	// SaveEntityNode merges an entity node and returns the stored node.
	SaveEntityNode(ctx context.Context, node EntityNode) (*EntityNode, error)

	// DeleteEntityEdge removes the entity edge with the given UUID.
	// Returns ErrNotFound if no such edge exists.
	DeleteEntityEdge(ctx context.Context, uuid string) error

	// DeleteGroup removes every node belonging to the group and its relationships.
	DeleteGroup(ctx context.Context, groupID string) error

	// DeleteEpisode removes the episode with the given UUID.
	// Returns ErrNotFound if no such episode exists.
	DeleteEpisode(ctx context.Context, uuid string) error

	// Clear removes all data from the graph.
	Clear(ctx context.Context) error

	// BuildIndices creates the indices and constraints the graph relies on.
	BuildIndices(ctx context.Context) error
}
