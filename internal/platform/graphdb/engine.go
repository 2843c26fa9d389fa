package graphdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/phrazzld/graph-ingest/internal/config"
	"github.com/phrazzld/graph-ingest/internal/graph"
	"github.com/phrazzld/graph-ingest/internal/platform/logger"
)

// queryFunc executes a single auto-commit write query and collects its records.
type queryFunc func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

// Neo4jEngine implements graph.Engine on top of the Neo4j Go driver
type Neo4jEngine struct {
	driver neo4j.DriverWithContext
	query  queryFunc
	logger *slog.Logger
}

// Compile-time check that Neo4jEngine implements graph.Engine
var _ graph.Engine = (*Neo4jEngine)(nil)

// Open creates a driver for cfg, verifies connectivity and returns an engine
// bound to the configured database.
func Open(ctx context.Context, cfg config.Neo4jConfig, logger *slog.Logger) (*Neo4jEngine, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return NewNeo4jEngine(driver, cfg.Database, logger), nil
}

// NewNeo4jEngine creates an engine that runs its queries through driver
// against the named database.
func NewNeo4jEngine(driver neo4j.DriverWithContext, database string, logger *slog.Logger) *Neo4jEngine {
	return &Neo4jEngine{
		driver: driver,
		query: func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
			return neo4j.ExecuteQuery(ctx, driver, query, params,
				neo4j.EagerResultTransformer,
				neo4j.ExecuteQueryWithDatabase(database),
				neo4j.ExecuteQueryWithWritersRouting())
		},
		logger: logger,
	}
}

// Close releases the driver's connections
func (e *Neo4jEngine) Close(ctx context.Context) error {
	if e.driver == nil {
		return nil
	}
	return e.driver.Close(ctx)
}

// AddEpisode merges an episodic node keyed by UUID
func (e *Neo4jEngine) AddEpisode(ctx context.Context, episode graph.Episode) error {
	if err := episode.Validate(); err != nil {
		return err
	}

	_, err := e.query(ctx, addEpisodeQuery, episodeParams(episode, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to add episode %s: %w", episode.UUID, err)
	}

	logger.FromContext(ctx).Debug("episode merged",
		"episode_uuid", episode.UUID,
		"group_id", episode.GroupID)
	return nil
}

// SaveEntityNode merges an entity node and returns it as stored
func (e *Neo4jEngine) SaveEntityNode(ctx context.Context, node graph.EntityNode) (*graph.EntityNode, error) {
	if err := node.Validate(); err != nil {
		return nil, err
	}

	result, err := e.query(ctx, saveEntityNodeQuery, map[string]any{
		"uuid":       node.UUID,
		"group_id":   node.GroupID,
		"name":       node.Name,
		"summary":    node.Summary,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save entity node %s: %w", node.UUID, err)
	}
	if len(result.Records) == 0 {
		return nil, fmt.Errorf("failed to save entity node %s: no record returned", node.UUID)
	}

	saved, err := entityNodeFromRecord(result.Records[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read saved entity node %s: %w", node.UUID, err)
	}
	return saved, nil
}

// DeleteEntityEdge removes the RELATES_TO edge with the given UUID
func (e *Neo4jEngine) DeleteEntityEdge(ctx context.Context, uuid string) error {
	deleted, err := e.deleteCount(ctx, deleteEntityEdgeQuery, map[string]any{"uuid": uuid})
	if err != nil {
		return fmt.Errorf("failed to delete entity edge %s: %w", uuid, err)
	}
	if deleted == 0 {
		return fmt.Errorf("entity edge %s: %w", uuid, graph.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes every node in the group along with its relationships
func (e *Neo4jEngine) DeleteGroup(ctx context.Context, groupID string) error {
	deleted, err := e.deleteCount(ctx, deleteGroupQuery, map[string]any{"group_id": groupID})
	if err != nil {
		return fmt.Errorf("failed to delete group %s: %w", groupID, err)
	}

	logger.FromContext(ctx).Info("group deleted",
		"group_id", groupID,
		"nodes_deleted", deleted)
	return nil
}

// DeleteEpisode removes the episodic node with the given UUID
func (e *Neo4jEngine) DeleteEpisode(ctx context.Context, uuid string) error {
	deleted, err := e.deleteCount(ctx, deleteEpisodeQuery, map[string]any{"uuid": uuid})
	if err != nil {
		return fmt.Errorf("failed to delete episode %s: %w", uuid, err)
	}
	if deleted == 0 {
		return fmt.Errorf("episode %s: %w", uuid, graph.ErrNotFound)
	}
	return nil
}

// Clear removes all nodes and relationships
func (e *Neo4jEngine) Clear(ctx context.Context) error {
	deleted, err := e.deleteCount(ctx, clearQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}

	logger.FromContext(ctx).Info("graph cleared", "nodes_deleted", deleted)
	return nil
}

// BuildIndices creates the indices used by lookups on uuid and group_id
func (e *Neo4jEngine) BuildIndices(ctx context.Context) error {
	for _, stmt := range indexQueries {
		if _, err := e.query(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to build indices: %w", err)
		}
	}
	return nil
}

// deleteCount runs a delete query that returns a single "deleted" count
func (e *Neo4jEngine) deleteCount(ctx context.Context, query string, params map[string]any) (int64, error) {
	result, err := e.query(ctx, query, params)
	if err != nil {
		return 0, err
	}
	if len(result.Records) == 0 {
		return 0, nil
	}

	deleted, ok := result.Records[0].Get("deleted")
	if !ok {
		return 0, fmt.Errorf("query result has no deleted column")
	}
	count, ok := deleted.(int64)
	if !ok {
		return 0, fmt.Errorf("deleted column has type %T, want int64", deleted)
	}
	return count, nil
}
