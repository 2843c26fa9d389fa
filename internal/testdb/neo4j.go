//go:build integration

package testdb

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/graph-ingest/internal/config"
	"github.com/phrazzld/graph-ingest/internal/platform/graphdb"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 15 * time.Second

// IsIntegrationTestEnvironment returns true if a test Neo4j URI is configured.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("GRAPH_TEST_NEO4J_URI") != ""
}

// GetTestNeo4jConfig builds the connection settings for the test database
// from the environment.
func GetTestNeo4jConfig() config.Neo4jConfig {
	cfg := config.Neo4jConfig{
		URI:      os.Getenv("GRAPH_TEST_NEO4J_URI"),
		User:     os.Getenv("GRAPH_TEST_NEO4J_USER"),
		Password: os.Getenv("GRAPH_TEST_NEO4J_PASSWORD"),
		Database: os.Getenv("GRAPH_TEST_NEO4J_DATABASE"),
	}
	if cfg.User == "" {
		cfg.User = "neo4j"
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}
	return cfg
}

// OpenTestEngine connects to the test database, wipes it and builds the
// indices. The engine is closed when the test finishes.
func OpenTestEngine(t *testing.T) *graphdb.Neo4jEngine {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("GRAPH_TEST_NEO4J_URI not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	engine, err := graphdb.Open(ctx, GetTestNeo4jConfig(), logger)
	require.NoError(t, err, "Failed to connect to test Neo4j")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		if err := engine.Close(ctx); err != nil {
			t.Logf("Warning: failed to close test engine: %v", err)
		}
	})

	require.NoError(t, engine.Clear(ctx), "Failed to clear test graph")
	require.NoError(t, engine.BuildIndices(ctx), "Failed to build indices")
	return engine
}
