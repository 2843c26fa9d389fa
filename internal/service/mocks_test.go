package service

import (
	"context"
	"sync"

	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/stretchr/testify/mock"
)

// MockEngine mocks the graph.Engine interface
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AddEpisode(ctx context.Context, episode graph.Episode) error {
	args := m.Called(ctx, episode)
	return args.Error(0)
}

func (m *MockEngine) SaveEntityNode(ctx context.Context, node graph.EntityNode) (*graph.EntityNode, error) {
	args := m.Called(ctx, node)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*graph.EntityNode), args.Error(1)
}

func (m *MockEngine) DeleteEntityEdge(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockEngine) DeleteGroup(ctx context.Context, groupID string) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *MockEngine) DeleteEpisode(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockEngine) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngine) BuildIndices(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockEnqueuer records enqueued jobs; EnqueueFn overrides the default behavior
type mockEnqueuer struct {
	mu        sync.Mutex
	jobs      []task.Job
	EnqueueFn func(job task.Job) error
}

func (m *mockEnqueuer) Enqueue(job task.Job) error {
	if m.EnqueueFn != nil {
		if err := m.EnqueueFn(job); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockEnqueuer) Jobs() []task.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]task.Job(nil), m.jobs...)
}
