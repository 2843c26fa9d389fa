package task

import "time"

// Metrics receives job outcomes from the worker.
type Metrics interface {
	JobProcessed(kind Kind, elapsed time.Duration)
	JobFailed(kind Kind, elapsed time.Duration)
	JobsDiscarded(n int)
	QueueDepth(n int)
}

type nopMetrics struct{}

func (nopMetrics) JobProcessed(Kind, time.Duration) {}
func (nopMetrics) JobFailed(Kind, time.Duration)    {}
func (nopMetrics) JobsDiscarded(int)                {}
func (nopMetrics) QueueDepth(int)                   {}
