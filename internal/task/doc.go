// Package task manages deferred graph writes: an unbounded in-memory job
// queue, a single worker goroutine that executes queued jobs in order, and
// the start/stop lifecycle that drains the queue at shutdown. Request
// handlers enqueue jobs and return without waiting for the write to happen.
package task
