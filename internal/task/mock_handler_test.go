package task

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// recordingHandler is a Handler that records the order jobs ran in and
// delegates to an optional per-test function
type recordingHandler struct {
	mu       sync.Mutex
	executed []uuid.UUID
	HandleFn func(ctx context.Context, job Job) error
}

func (h *recordingHandler) HandleJob(ctx context.Context, job Job) error {
	h.mu.Lock()
	h.executed = append(h.executed, job.ID())
	h.mu.Unlock()

	if h.HandleFn != nil {
		return h.HandleFn(ctx, job)
	}
	return nil
}

func (h *recordingHandler) Executed() []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]uuid.UUID(nil), h.executed...)
}

type testPayload struct {
	Message string
}

func newTestJob(message string) Job {
	return NewJob(KindAddEpisode, testPayload{Message: message})
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func jobIDs(jobs []Job) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID())
	}
	return ids
}
