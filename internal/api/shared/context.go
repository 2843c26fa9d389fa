package shared

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/graph-ingest/internal/platform/logger"
)

// TraceIDHeader is the header used to propagate and echo the trace ID
const TraceIDHeader = "X-Request-ID"

// NewTraceID returns a random 32-character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithTraceID stores traceID in ctx together with a request logger that
// carries it, so services and error responses can correlate their output.
func WithTraceID(ctx context.Context, traceID string, base *slog.Logger) context.Context {
	if base == nil {
		base = slog.Default()
	}
	ctx = logger.WithRequestID(ctx, traceID)
	return logger.WithLogger(ctx, base.With(slog.String("trace_id", traceID)))
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	return logger.RequestIDFromContext(ctx)
}
