package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/graph-ingest/internal/api/shared"
	"github.com/phrazzld/graph-ingest/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware_GeneratesTraceID(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var seen string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/messages", nil))

	require.Len(t, seen, 32)
	assert.Equal(t, seen, rr.Header().Get(shared.TraceIDHeader))
	assert.Equal(t, http.StatusAccepted, rr.Code)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, seen, entry["trace_id"])
	}
	assert.Equal(t, "request completed", entries[2]["msg"])
	assert.Equal(t, float64(http.StatusAccepted), entries[2]["status"])
}

func TestTraceMiddleware_ReusesIncomingHeader(t *testing.T) {
	log, _ := logger.GetTestLogger(t)

	var seen string
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set(shared.TraceIDHeader, "upstream-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", rr.Header().Get(shared.TraceIDHeader))
	assert.Equal(t, http.StatusOK, rr.Code)
}
