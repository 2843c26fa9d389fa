package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phrazzld/graph-ingest/internal/redact"
)

// Lifecycle errors
var (
	ErrAlreadyStarted  = errors.New("worker already started")
	ErrWorkerStopped   = errors.New("worker has been stopped and cannot be restarted")
	ErrShutdownTimeout = errors.New("worker did not stop before the shutdown deadline")
)

// State is the lifecycle state of a Worker
type State int32

// Worker states. Transitions only move forward.
const (
	StateNotStarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String returns the state name used in logs and stats
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// WorkerConfig holds configuration options for the worker
type WorkerConfig struct {
	// JobTimeout bounds the execution time of a single job.
	// Zero means jobs run until they return.
	JobTimeout time.Duration
}

// DefaultWorkerConfig returns a WorkerConfig with reasonable defaults
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		JobTimeout: 0,
	}
}

// Stats is a point-in-time snapshot of the worker counters
type Stats struct {
	State      State
	Processed  uint64
	Failed     uint64
	Discarded  uint64
	QueueDepth int
}

// PanicError is the failure recorded for a job whose handler panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job handler panicked: %v", e.Value)
}

// Worker runs jobs from a JobQueue one at a time on a single goroutine.
// A failing job is recorded and logged; it never stops the loop.
type Worker struct {
	queue   *JobQueue
	handler Handler
	config  WorkerConfig
	logger  *slog.Logger
	metrics Metrics

	mu         sync.Mutex
	state      State
	cancelLoop context.CancelFunc
	cancelJobs context.CancelFunc
	done       chan struct{}
	stopped    chan struct{}

	// Written only by the loop (processed, failed) and by drain (discarded);
	// atomics keep concurrent Stats readers race-free.
	processed atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64
}

// NewWorker creates a worker consuming queue and dispatching jobs to handler.
func NewWorker(queue *JobQueue, handler Handler, config WorkerConfig, logger *slog.Logger) *Worker {
	return &Worker{
		queue:   queue,
		handler: handler,
		config:  config,
		logger:  logger,
		metrics: nopMetrics{},
		state:   StateNotStarted,
		stopped: make(chan struct{}),
	}
}

// SetMetrics installs a metrics sink. It must be called before Start.
func (w *Worker) SetMetrics(m Metrics) {
	if m == nil {
		m = nopMetrics{}
	}
	w.metrics = m
}

// Enqueue hands a job to the worker's queue and returns immediately.
func (w *Worker) Enqueue(job Job) error {
	if err := w.queue.Enqueue(job); err != nil {
		return err
	}

	depth := w.queue.Len()
	w.metrics.QueueDepth(depth)
	w.logger.Debug("job enqueued",
		"job_id", job.ID(),
		"job_kind", job.Kind(),
		"queue_len", depth)
	return nil
}

// Start launches the worker loop and returns once it has been scheduled.
// Cancelling ctx also ends the loop; Stop is still required to drain.
// Starting a running worker returns ErrAlreadyStarted and starting a stopped
// worker returns ErrWorkerStopped.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateRunning, StateStopping:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrWorkerStopped
	}

	loopCtx, cancelLoop := context.WithCancel(ctx)
	// Jobs keep running through a Stop request until the shutdown deadline.
	jobCtx, cancelJobs := context.WithCancel(context.WithoutCancel(ctx))

	w.cancelLoop = cancelLoop
	w.cancelJobs = cancelJobs
	w.done = make(chan struct{})
	w.state = StateRunning

	go w.run(loopCtx, jobCtx, w.done)

	w.logger.Info("worker started", "job_timeout", w.config.JobTimeout)
	return nil
}

// Stop cancels the worker loop, waits for it to exit, then drains the queue.
//
// The wait is bounded by ctx. When ctx expires first, the context of the
// in-flight job is cancelled, the queue is drained anyway and
// ErrShutdownTimeout is returned. The loop will not dequeue again either way.
//
// Stop on a worker that was never started closes and drains the queue.
// Stop on a stopped worker is a no-op.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case StateStopped:
		w.mu.Unlock()
		return nil

	case StateStopping:
		// Another caller is already stopping the worker
		stopped := w.stopped
		w.mu.Unlock()
		select {
		case <-stopped:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
		}

	case StateNotStarted:
		w.state = StateStopping
		w.mu.Unlock()
		discarded := w.drain()
		w.finishStop()
		w.logger.Info("worker stopped before start", "discarded", discarded)
		return nil
	}

	// Cancel under the lock so that Stopping always means no further dequeues
	w.state = StateStopping
	w.cancelLoop()
	cancelJobs, done := w.cancelJobs, w.done
	w.mu.Unlock()

	w.logger.Info("stopping worker",
		"processed", w.processed.Load(),
		"failed", w.failed.Load(),
		"queue_len", w.queue.Len())

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("worker did not stop before deadline, cancelling in-flight job",
			"error", ctx.Err())
		err = fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
	cancelJobs()

	discarded := w.drain()
	w.finishStop()

	w.logger.Info("worker stopped",
		"processed", w.processed.Load(),
		"failed", w.failed.Load(),
		"discarded", discarded)
	return err
}

// State returns the current lifecycle state
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Stats returns the current counters and queue depth
func (w *Worker) Stats() Stats {
	return Stats{
		State:      w.State(),
		Processed:  w.processed.Load(),
		Failed:     w.failed.Load(),
		Discarded:  w.discarded.Load(),
		QueueDepth: w.queue.Len(),
	}
}

func (w *Worker) finishStop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateStopped
	close(w.stopped)
}

// drain closes the queue and discards everything left in it.
func (w *Worker) drain() int {
	remaining := w.queue.Drain()
	for _, job := range remaining {
		w.logger.Debug("discarding job",
			"job_id", job.ID(),
			"job_kind", job.Kind())
	}

	n := len(remaining)
	w.discarded.Add(uint64(n))
	w.metrics.JobsDiscarded(n)
	w.metrics.QueueDepth(0)
	return n
}

// run is the worker loop. It checks for cancellation before every dequeue
// and otherwise sleeps until a job arrives or cancellation is requested.
func (w *Worker) run(loopCtx, jobCtx context.Context, done chan struct{}) {
	defer close(done)

	w.logger.Debug("worker loop started, waiting for jobs")

	for {
		if loopCtx.Err() != nil {
			w.logger.Debug("worker loop cancelled")
			return
		}

		job, ok := w.queue.pop()
		if !ok {
			select {
			case <-loopCtx.Done():
				w.logger.Debug("worker loop cancelled")
				return
			case <-w.queue.Ready():
				continue
			}
		}

		w.metrics.QueueDepth(w.queue.Len())
		w.execute(jobCtx, job)
	}
}

// execute runs a single job and records its outcome.
func (w *Worker) execute(ctx context.Context, job Job) {
	logger := w.logger.With(
		"job_id", job.ID(),
		"job_kind", job.Kind(),
	)

	if w.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.config.JobTimeout)
		defer cancel()
	}

	logger.Info("processing job",
		"job_number", w.processed.Load()+w.failed.Load()+1,
		"queue_len", w.queue.Len(),
		"queue_wait_ms", time.Since(job.EnqueuedAt()).Milliseconds())

	start := time.Now()
	err := w.handle(ctx, job)
	elapsed := time.Since(start)

	if err != nil {
		failed := w.failed.Add(1)
		w.metrics.JobFailed(job.Kind(), elapsed)

		attrs := []any{
			"error", redact.Error(err),
			"error_type", errorType(err),
			"duration_ms", elapsed.Milliseconds(),
			"total_failed", failed,
		}
		var panicErr *PanicError
		if errors.As(err, &panicErr) {
			attrs = append(attrs, "stack", string(panicErr.Stack))
		}
		logger.Error("job failed", attrs...)
		return
	}

	processed := w.processed.Add(1)
	w.metrics.JobProcessed(job.Kind(), elapsed)
	logger.Info("job completed",
		"duration_ms", elapsed.Milliseconds(),
		"total_processed", processed)
}

// handle calls the handler, converting a panic into a *PanicError.
func (w *Worker) handle(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return w.handler.HandleJob(ctx, job)
}

// errorType names the innermost error in the chain.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
