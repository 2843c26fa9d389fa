//go:build integration

package graphdb_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/service"
	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/phrazzld/graph-ingest/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeo4jEngine_EpisodeLifecycle(t *testing.T) {
	engine := testdb.OpenTestEngine(t)
	ctx := context.Background()

	ep := graph.Episode{
		UUID:          "it-episode-1",
		GroupID:       "it-group",
		Name:          "greeting",
		Body:          "alice(user): hello",
		Source:        graph.EpisodeTypeMessage,
		ReferenceTime: time.Now(),
	}
	require.NoError(t, engine.AddEpisode(ctx, ep))
	// Merging the same UUID again is not an error
	require.NoError(t, engine.AddEpisode(ctx, ep))

	require.NoError(t, engine.DeleteEpisode(ctx, ep.UUID))
	assert.ErrorIs(t, engine.DeleteEpisode(ctx, ep.UUID), graph.ErrNotFound)
}

func TestNeo4jEngine_EntityNodes(t *testing.T) {
	engine := testdb.OpenTestEngine(t)
	ctx := context.Background()

	saved, err := engine.SaveEntityNode(ctx, graph.EntityNode{
		UUID: "it-node-1", GroupID: "it-group", Name: "Alice", Summary: "a person",
	})
	require.NoError(t, err)
	assert.Equal(t, "it-node-1", saved.UUID)
	assert.Equal(t, "a person", saved.Summary)
	assert.False(t, saved.CreatedAt.IsZero())

	assert.ErrorIs(t, engine.DeleteEntityEdge(ctx, "it-missing-edge"), graph.ErrNotFound)
	require.NoError(t, engine.DeleteGroup(ctx, "it-group"))
	require.NoError(t, engine.DeleteGroup(ctx, "it-group"), "deleting an empty group succeeds")
}

func TestNeo4jEngine_ThroughWorker(t *testing.T) {
	engine := testdb.OpenTestEngine(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mux := task.NewMux()
	service.RegisterJobHandlers(mux, engine)
	worker := task.NewWorker(task.NewJobQueue(), mux, task.DefaultWorkerConfig(), logger)
	require.NoError(t, worker.Start(context.Background()))

	svc, err := service.NewIngestService(worker, engine, logger)
	require.NoError(t, err)

	_, err = svc.AddMessages(context.Background(), "it-group", []service.Message{
		{UUID: "it-msg-1", Content: "hi", RoleType: service.RoleTypeUser},
		{UUID: "it-msg-2", Content: "hello", RoleType: service.RoleTypeAssistant},
	})
	require.NoError(t, err)
	_, err = svc.DeleteEpisode(context.Background(), "it-msg-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return worker.Stats().Processed == 3
	}, testdb.TestTimeout, 20*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()
	require.NoError(t, worker.Stop(stopCtx))

	assert.ErrorIs(t, engine.DeleteEpisode(context.Background(), "it-msg-1"), graph.ErrNotFound)
	require.NoError(t, engine.DeleteEpisode(context.Background(), "it-msg-2"))
}
