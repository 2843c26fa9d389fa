// Package graph defines the knowledge-graph entities written by the ingest
// service (episodes, entity nodes, entity edges, groups) and the Engine
// interface that applies mutations to the graph store.
package graph
