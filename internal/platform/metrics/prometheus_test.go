package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.JobProcessed(task.KindAddEpisode, 10*time.Millisecond)
	r.JobProcessed(task.KindAddEpisode, 20*time.Millisecond)
	r.JobFailed(task.KindDeleteEpisode, time.Millisecond)
	r.JobsDiscarded(3)
	r.JobsDiscarded(0)
	r.QueueDepth(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.jobsTotal.WithLabelValues("add_episode", OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.jobsTotal.WithLabelValues("delete_episode", OutcomeFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.jobsDiscarded))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.queueDepth))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.JobProcessed(task.KindClearGraph, time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `graph_ingest_jobs_total{kind="clear_graph",outcome="processed"} 1`)
	assert.Contains(t, string(body), "graph_ingest_job_duration_seconds_bucket")
}
