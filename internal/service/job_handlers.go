package service

import (
	"context"
	"fmt"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/task"
)

// RegisterJobHandlers binds every job kind produced by IngestService to the
// engine operation that executes it.
func RegisterJobHandlers(mux *task.Mux, engine graph.Engine) {
	mux.Handle(task.KindAddEpisode, task.Typed(engine.AddEpisode))
	mux.Handle(task.KindDeleteEntityEdge, task.Typed(engine.DeleteEntityEdge))
	mux.Handle(task.KindDeleteGroup, task.Typed(engine.DeleteGroup))
	mux.Handle(task.KindDeleteEpisode, task.Typed(engine.DeleteEpisode))
	mux.Handle(task.KindClearGraph, task.Typed(func(ctx context.Context, _ ClearGraphPayload) error {
		return clearGraph(ctx, engine)
	}))
}

// clearGraph removes all data and recreates the indices
func clearGraph(ctx context.Context, engine graph.Engine) error {
	if err := engine.Clear(ctx); err != nil {
		return err
	}
	if err := engine.BuildIndices(ctx); err != nil {
		return fmt.Errorf("graph cleared but index rebuild failed: %w", err)
	}
	return nil
}
