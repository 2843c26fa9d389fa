package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterJobHandlers_DispatchesToEngine(t *testing.T) {
	engine := &MockEngine{}
	mux := task.NewMux()
	RegisterJobHandlers(mux, engine)
	assert.Equal(t, 5, mux.Kinds())

	ep := graph.Episode{UUID: "ep-1", GroupID: "g", ReferenceTime: time.Now()}
	engine.On("AddEpisode", mock.Anything, ep).Return(nil).Once()
	engine.On("DeleteEntityEdge", mock.Anything, "edge-1").Return(nil).Once()
	engine.On("DeleteGroup", mock.Anything, "g").Return(nil).Once()
	engine.On("DeleteEpisode", mock.Anything, "ep-1").Return(graph.ErrNotFound).Once()

	ctx := context.Background()
	require.NoError(t, mux.HandleJob(ctx, task.NewJob(task.KindAddEpisode, ep)))
	require.NoError(t, mux.HandleJob(ctx, task.NewJob(task.KindDeleteEntityEdge, "edge-1")))
	require.NoError(t, mux.HandleJob(ctx, task.NewJob(task.KindDeleteGroup, "g")))
	assert.ErrorIs(t, mux.HandleJob(ctx, task.NewJob(task.KindDeleteEpisode, "ep-1")), graph.ErrNotFound)

	engine.AssertExpectations(t)
}

func TestRegisterJobHandlers_ClearRebuildsIndices(t *testing.T) {
	engine := &MockEngine{}
	mux := task.NewMux()
	RegisterJobHandlers(mux, engine)

	var order []string
	engine.On("Clear", mock.Anything).Return(nil).Run(func(mock.Arguments) { order = append(order, "clear") }).Once()
	engine.On("BuildIndices", mock.Anything).Return(nil).Run(func(mock.Arguments) { order = append(order, "indices") }).Once()

	require.NoError(t, mux.HandleJob(context.Background(), task.NewJob(task.KindClearGraph, ClearGraphPayload{})))
	assert.Equal(t, []string{"clear", "indices"}, order)
	engine.AssertExpectations(t)
}

func TestRegisterJobHandlers_ClearFailureSkipsIndices(t *testing.T) {
	engine := &MockEngine{}
	mux := task.NewMux()
	RegisterJobHandlers(mux, engine)

	engine.On("Clear", mock.Anything).Return(errors.New("database unavailable")).Once()

	err := mux.HandleJob(context.Background(), task.NewJob(task.KindClearGraph, ClearGraphPayload{}))
	assert.EqualError(t, err, "database unavailable")
	engine.AssertNotCalled(t, "BuildIndices", mock.Anything)
}

func TestRegisterJobHandlers_IndexFailureIsWrapped(t *testing.T) {
	engine := &MockEngine{}
	mux := task.NewMux()
	RegisterJobHandlers(mux, engine)

	indexErr := errors.New("index build timed out")
	engine.On("Clear", mock.Anything).Return(nil).Once()
	engine.On("BuildIndices", mock.Anything).Return(indexErr).Once()

	err := mux.HandleJob(context.Background(), task.NewJob(task.KindClearGraph, ClearGraphPayload{}))
	assert.ErrorIs(t, err, indexErr)
	assert.Contains(t, err.Error(), "index rebuild failed")
}

func TestRegisterJobHandlers_WrongPayloadFailsJob(t *testing.T) {
	engine := &MockEngine{}
	mux := task.NewMux()
	RegisterJobHandlers(mux, engine)

	err := mux.HandleJob(context.Background(), task.NewJob(task.KindDeleteGroup, 42))
	assert.ErrorIs(t, err, task.ErrInvalidPayload)
	engine.AssertNotCalled(t, "DeleteGroup", mock.Anything, mock.Anything)
}
