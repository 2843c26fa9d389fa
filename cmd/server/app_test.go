package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/graph-ingest/internal/config"
	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/platform/metrics"
	"github.com/phrazzld/graph-ingest/internal/service"
	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records graph writes in memory
type fakeEngine struct {
	mu       sync.Mutex
	episodes []graph.Episode
	groups   []string
	closed   bool

	// AddEpisodeFn overrides AddEpisode when set
	AddEpisodeFn func(ctx context.Context, episode graph.Episode) error
}

func (f *fakeEngine) AddEpisode(ctx context.Context, episode graph.Episode) error {
	if f.AddEpisodeFn != nil {
		if err := f.AddEpisodeFn(ctx, episode); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.episodes = append(f.episodes, episode)
	return nil
}

func (f *fakeEngine) SaveEntityNode(ctx context.Context, node graph.EntityNode) (*graph.EntityNode, error) {
	return &node, nil
}

func (f *fakeEngine) DeleteEntityEdge(ctx context.Context, uuid string) error {
	return graph.ErrNotFound
}

func (f *fakeEngine) DeleteGroup(ctx context.Context, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, groupID)
	return nil
}

func (f *fakeEngine) DeleteEpisode(ctx context.Context, uuid string) error { return nil }
func (f *fakeEngine) Clear(ctx context.Context) error                      { return nil }
func (f *fakeEngine) BuildIndices(ctx context.Context) error               { return nil }

func (f *fakeEngine) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) Episodes() []graph.Episode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]graph.Episode(nil), f.episodes...)
}

func (f *fakeEngine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func testConfig(shutdownTimeout time.Duration) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "debug"},
		Neo4j: config.Neo4jConfig{
			URI: "bolt://localhost:7687", User: "neo4j", Password: "test", Database: "neo4j",
		},
		Task: config.TaskConfig{ShutdownTimeout: shutdownTimeout},
	}
}

func newTestApplication(t *testing.T, engine *fakeEngine, shutdownTimeout time.Duration) *application {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(shutdownTimeout), logger, engine, metrics.New())
	require.NoError(t, err)
	return app
}

func TestNewApplication_RequiresEngine(t *testing.T) {
	_, err := newApplication(testConfig(time.Second), slog.Default(), nil, nil)
	assert.Error(t, err)
}

func TestApplication_MessagesFlowThroughWorker(t *testing.T) {
	engine := &fakeEngine{}
	app := newTestApplication(t, engine, 5*time.Second)
	require.NoError(t, app.worker.Start(context.Background()))

	router := app.setupRouter()

	body := `{"group_id":"g-1","messages":[
		{"content":"hi","role_type":"user","role":"alice"},
		{"content":"hello","role_type":"assistant","role":"bot"}
	]}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	require.Eventually(t, func() bool {
		return len(engine.Episodes()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	episodes := engine.Episodes()
	assert.Equal(t, "alice(user): hi", episodes[0].Body)
	assert.Equal(t, "bot(assistant): hello", episodes[1].Body)
	assert.Equal(t, "g-1", episodes[0].GroupID)

	// A queued delete that fails is counted but does not stop the worker
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/entity-edge/missing", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Eventually(t, func() bool {
		return app.worker.Stats().Failed == 1
	}, 2*time.Second, 5*time.Millisecond)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/worker/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, "running", stats["state"])
	assert.Equal(t, float64(2), stats["processed"])
	assert.Equal(t, float64(1), stats["failed"])

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `graph_ingest_jobs_total{kind="add_episode",outcome="processed"} 2`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())

	require.NoError(t, app.cleanup())
	assert.True(t, engine.Closed())
	assert.Equal(t, task.StateStopped, app.worker.State())

	// After shutdown new writes are refused
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/group/g-1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestCleanup_ShutdownTimeoutCancelsInFlightJob(t *testing.T) {
	started := make(chan struct{})
	engine := &fakeEngine{
		AddEpisodeFn: func(ctx context.Context, _ graph.Episode) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}
	app := newTestApplication(t, engine, 50*time.Millisecond)
	require.NoError(t, app.worker.Start(context.Background()))

	_, err := app.ingestService.AddMessages(context.Background(), "g-1", []service.Message{
		{Content: "stuck", RoleType: service.RoleTypeUser},
	})
	require.NoError(t, err)
	<-started

	err = app.cleanup()
	assert.ErrorIs(t, err, task.ErrShutdownTimeout)
	assert.True(t, engine.Closed(), "the engine is closed even when the worker times out")
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	engine := &fakeEngine{}
	app := newTestApplication(t, engine, time.Second)
	require.NoError(t, app.worker.Start(context.Background()))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, listener, app.setupRouter())
	}()

	url := "http://" + listener.Addr().String() + "/healthcheck"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after context cancellation")
	}
	assert.Equal(t, task.StateStopped, app.worker.State())
	assert.True(t, engine.Closed())
}
