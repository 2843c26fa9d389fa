// Package metrics exposes worker and queue metrics through Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/phrazzld/graph-ingest/internal/task"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcome label values
const (
	OutcomeProcessed = "processed"
	OutcomeFailed    = "failed"
)

// Recorder implements task.Metrics using Prometheus.
type Recorder struct {
	gatherer prometheus.Gatherer

	jobsTotal     *prometheus.CounterVec
	jobsDiscarded prometheus.Counter
	queueDepth    prometheus.Gauge
	jobDuration   *prometheus.HistogramVec
}

var _ task.Metrics = (*Recorder)(nil)

// New creates a recorder whose metrics are registered on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the recorder's metrics on reg and serves them
// from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: gatherer,
		jobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graph_ingest_jobs_total",
				Help: "Total number of executed jobs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		jobsDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "graph_ingest_jobs_discarded_total",
				Help: "Total number of queued jobs discarded at shutdown",
			},
		),
		queueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "graph_ingest_queue_depth",
				Help: "Number of jobs waiting in the queue",
			},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graph_ingest_job_duration_seconds",
				Help:    "Duration of job execution in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
	}
}

// JobProcessed records a successful job.
func (r *Recorder) JobProcessed(kind task.Kind, elapsed time.Duration) {
	r.jobsTotal.WithLabelValues(string(kind), OutcomeProcessed).Inc()
	r.jobDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// JobFailed records a failed job.
func (r *Recorder) JobFailed(kind task.Kind, elapsed time.Duration) {
	r.jobsTotal.WithLabelValues(string(kind), OutcomeFailed).Inc()
	r.jobDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// JobsDiscarded records jobs dropped by the shutdown drain.
func (r *Recorder) JobsDiscarded(n int) {
	r.jobsDiscarded.Add(float64(n))
}

// QueueDepth records the current queue length.
func (r *Recorder) QueueDepth(n int) {
	r.queueDepth.Set(float64(n))
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
