// Package api handles incoming HTTP requests, request validation and
// response formatting. It acts as an adapter between HTTP clients and the
// ingest service, translating write requests into queued graph jobs.
package api
