// Package graphdb provides the Neo4j implementation of graph.Engine.
// It handles the driver connection, Cypher query execution, and mapping
// between graph records and domain entities.
package graphdb
