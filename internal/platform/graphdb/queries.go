package graphdb

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/phrazzld/graph-ingest/internal/graph"
)

const addEpisodeQuery = `
MERGE (e:Episodic {uuid: $uuid})
SET e.group_id = $group_id,
    e.name = $name,
    e.content = $content,
    e.source = $source,
    e.source_description = $source_description,
    e.valid_at = $valid_at,
    e.created_at = coalesce(e.created_at, $created_at)
`

const saveEntityNodeQuery = `
MERGE (n:Entity {uuid: $uuid})
SET n.group_id = $group_id,
    n.name = $name,
    n.summary = $summary,
    n.created_at = coalesce(n.created_at, $created_at)
RETURN n.uuid AS uuid, n.group_id AS group_id, n.name AS name,
       n.summary AS summary, n.created_at AS created_at
`

const deleteEntityEdgeQuery = `
MATCH (:Entity)-[e:RELATES_TO {uuid: $uuid}]->(:Entity)
DELETE e
RETURN count(e) AS deleted
`

const deleteGroupQuery = `
MATCH (n)
WHERE n.group_id = $group_id
DETACH DELETE n
RETURN count(n) AS deleted
`

const deleteEpisodeQuery = `
MATCH (e:Episodic {uuid: $uuid})
DETACH DELETE e
RETURN count(e) AS deleted
`

const clearQuery = `
MATCH (n)
DETACH DELETE n
RETURN count(n) AS deleted
`

var indexQueries = []string{
	"CREATE INDEX entity_uuid IF NOT EXISTS FOR (n:Entity) ON (n.uuid)",
	"CREATE INDEX episode_uuid IF NOT EXISTS FOR (n:Episodic) ON (n.uuid)",
	"CREATE INDEX relation_uuid IF NOT EXISTS FOR ()-[e:RELATES_TO]-() ON (e.uuid)",
	"CREATE INDEX entity_group_id IF NOT EXISTS FOR (n:Entity) ON (n.group_id)",
	"CREATE INDEX episode_group_id IF NOT EXISTS FOR (n:Episodic) ON (n.group_id)",
	"CREATE INDEX relation_group_id IF NOT EXISTS FOR ()-[e:RELATES_TO]-() ON (e.group_id)",
	"CREATE INDEX episode_valid_at IF NOT EXISTS FOR (n:Episodic) ON (n.valid_at)",
	"CREATE FULLTEXT INDEX entity_name_and_summary IF NOT EXISTS FOR (n:Entity) ON EACH [n.name, n.summary]",
}

func episodeParams(ep graph.Episode, now time.Time) map[string]any {
	return map[string]any{
		"uuid":               ep.UUID,
		"group_id":           ep.GroupID,
		"name":               ep.Name,
		"content":            ep.Body,
		"source":             string(ep.Source),
		"source_description": ep.SourceDescription,
		"valid_at":           ep.ReferenceTime.UTC(),
		"created_at":         now,
	}
}

func entityNodeFromRecord(record *neo4j.Record) (*graph.EntityNode, error) {
	node := &graph.EntityNode{}

	var err error
	if node.UUID, err = recordString(record, "uuid"); err != nil {
		return nil, err
	}
	if node.GroupID, err = recordString(record, "group_id"); err != nil {
		return nil, err
	}
	if node.Name, err = recordString(record, "name"); err != nil {
		return nil, err
	}
	if node.Summary, err = recordString(record, "summary"); err != nil {
		return nil, err
	}

	if value, ok := record.Get("created_at"); ok && value != nil {
		createdAt, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("created_at has type %T, want time.Time", value)
		}
		node.CreatedAt = createdAt.UTC()
	}

	return node, nil
}

// recordString reads a string column; a null value yields "".
func recordString(record *neo4j.Record, key string) (string, error) {
	value, ok := record.Get(key)
	if !ok {
		return "", fmt.Errorf("record has no %s column", key)
	}
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s has type %T, want string", key, value)
	}
	return s, nil
}
