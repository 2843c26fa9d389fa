// Package service contains the graph ingest use cases. It turns API requests
// into graph mutations, deferring the slow ones to the background worker as
// task.Job values and running the rest synchronously against a graph.Engine.
//
// The service depends on the task.Enqueuer and graph.Engine interfaces only,
// never on the worker or the Neo4j implementation directly.
package service
