package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the operation a job performs.
type Kind string

// Job kinds understood by the graph ingest service
const (
	KindAddEpisode       Kind = "add_episode"
	KindDeleteEntityEdge Kind = "delete_entity_edge"
	KindDeleteGroup      Kind = "delete_group"
	KindDeleteEpisode    Kind = "delete_episode"
	KindClearGraph       Kind = "clear_graph"
)

// Job is a deferred unit of work: an operation identifier plus its typed
// arguments. A Job is immutable once created and is executed at most once.
type Job struct {
	id         uuid.UUID
	kind       Kind
	payload    any
	enqueuedAt time.Time
}

// NewJob creates a job of the given kind carrying payload as its arguments.
func NewJob(kind Kind, payload any) Job {
	return Job{
		id:         uuid.New(),
		kind:       kind,
		payload:    payload,
		enqueuedAt: time.Now().UTC(),
	}
}

// ID returns the job's unique identifier
func (j Job) ID() uuid.UUID {
	return j.id
}

// Kind returns the operation identifier
func (j Job) Kind() Kind {
	return j.kind
}

// Payload returns the job arguments
func (j Job) Payload() any {
	return j.payload
}

// EnqueuedAt returns the time the job was created for enqueueing
func (j Job) EnqueuedAt() time.Time {
	return j.enqueuedAt
}

// Handler executes jobs.
type Handler interface {
	// HandleJob runs the job's operation. A returned error marks the job failed.
	HandleJob(ctx context.Context, job Job) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, job Job) error

// HandleJob calls f(ctx, job).
func (f HandlerFunc) HandleJob(ctx context.Context, job Job) error {
	return f(ctx, job)
}

// Enqueuer is the producer side of the queue. Request handlers depend on
// this interface only.
type Enqueuer interface {
	// Enqueue accepts a job for eventual execution and returns immediately.
	// It fails only once the queue has been closed by shutdown.
	Enqueue(job Job) error
}
