package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// Common service errors, checked by callers with errors.Is.
// The API layer maps these to HTTP status codes.
var (
	// ErrInvalidMessage indicates a message cannot be turned into an episode.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrNotAccepting indicates the job queue has been drained and no longer
	// accepts work. API layer should map this to HTTP 503 Service Unavailable.
	ErrNotAccepting = errors.New("ingest queue is not accepting jobs")
)

// IngestServiceError wraps errors from the ingest service with context.
type IngestServiceError struct {
	// Operation is the operation that failed (e.g., "add_messages", "delete_group")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for IngestServiceError.
func (e *IngestServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingest service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("ingest service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *IngestServiceError) Unwrap() error {
	return e.Err
}

// NewIngestServiceError creates a new IngestServiceError.
// Known sentinel errors are returned directly without wrapping.
func NewIngestServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidMessage),
		errors.Is(err, ErrNotAccepting),
		errors.Is(err, graph.ErrNotFound):
		return err
	case errors.Is(err, task.ErrQueueClosed), errors.Is(err, task.ErrWorkerStopped):
		return ErrNotAccepting
	}

	return &IngestServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
