package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Dispatch errors
var (
	ErrUnknownKind    = errors.New("no handler registered for job kind")
	ErrInvalidPayload = errors.New("job payload has unexpected type")
)

// Mux dispatches jobs to the handler registered for their kind.
type Mux struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
}

// NewMux creates an empty dispatcher
func NewMux() *Mux {
	return &Mux{
		handlers: make(map[Kind]Handler),
	}
}

// Handle registers the handler for a job kind, replacing any previous one.
func (m *Mux) Handle(kind Kind, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = handler
}

// HandleFunc registers a function as the handler for a job kind.
func (m *Mux) HandleFunc(kind Kind, fn func(ctx context.Context, job Job) error) {
	m.Handle(kind, HandlerFunc(fn))
}

// Kinds returns the number of registered job kinds
func (m *Mux) Kinds() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers)
}

// HandleJob implements Handler.
func (m *Mux) HandleJob(ctx context.Context, job Job) error {
	m.mu.RLock()
	handler, ok := m.handlers[job.Kind()]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, job.Kind())
	}
	return handler.HandleJob(ctx, job)
}

// Typed adapts a function taking a concrete payload type into a Handler.
// Jobs whose payload is not a T fail with ErrInvalidPayload.
func Typed[T any](fn func(ctx context.Context, payload T) error) Handler {
	return HandlerFunc(func(ctx context.Context, job Job) error {
		payload, ok := job.Payload().(T)
		if !ok {
			var want T
			return fmt.Errorf("%w: job %s of kind %q carries %T, want %T",
				ErrInvalidPayload, job.ID(), job.Kind(), job.Payload(), want)
		}
		return fn(ctx, payload)
	})
}
