//go:build integration

// Package testdb provides utilities for tests that run against a real Neo4j
// instance. Tests using it are compiled only with the integration build tag
// and skip themselves when no test database is configured.
//
// Configure the database with:
//
//	GRAPH_TEST_NEO4J_URI       bolt URI of a disposable instance (required)
//	GRAPH_TEST_NEO4J_USER      defaults to "neo4j"
//	GRAPH_TEST_NEO4J_PASSWORD  required by most installations
//	GRAPH_TEST_NEO4J_DATABASE  defaults to "neo4j"
//
// Every engine handed out by OpenTestEngine starts from an empty graph, so
// the database must not hold data worth keeping.
package testdb
