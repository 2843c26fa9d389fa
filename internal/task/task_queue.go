package task

import (
	"errors"
	"sync"
)

// Common errors returned by the JobQueue
var (
	ErrQueueClosed = errors.New("job queue is closed")
)

// JobQueue is an unbounded FIFO buffer of jobs. Any number of producers may
// push concurrently; a single consumer pops.
type JobQueue struct {
	mu     sync.Mutex
	jobs   []Job
	head   int
	closed bool

	// ready holds at most one pending wake-up for the consumer
	ready chan struct{}
}

// NewJobQueue creates an empty queue
func NewJobQueue() *JobQueue {
	return &JobQueue{
		ready: make(chan struct{}, 1),
	}
}

// Enqueue appends a job to the tail of the queue. It never blocks.
// Returns ErrQueueClosed once the queue has been drained by shutdown.
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
		// a wake-up is already pending
	}
	return nil
}

// pop removes and returns the job at the head of the queue.
func (q *JobQueue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == len(q.jobs) {
		return Job{}, false
	}

	job := q.jobs[q.head]
	q.jobs[q.head] = Job{}
	q.head++

	// Reclaim the backing array once it is mostly consumed
	if q.head == len(q.jobs) {
		q.jobs = q.jobs[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 >= len(q.jobs) {
		q.jobs = append([]Job(nil), q.jobs[q.head:]...)
		q.head = 0
	}

	return job, true
}

// Ready returns a channel that receives a value after jobs are enqueued.
func (q *JobQueue) Ready() <-chan struct{} {
	return q.ready
}

// Len returns the number of jobs waiting in the queue
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs) - q.head
}

// Drain closes the queue to further submissions and discards every job still
// waiting in it. It returns the discarded jobs in queue order.
func (q *JobQueue) Drain() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	remaining := append([]Job(nil), q.jobs[q.head:]...)
	q.jobs = nil
	q.head = 0
	return remaining
}

// Closed reports whether the queue has been drained.
func (q *JobQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
