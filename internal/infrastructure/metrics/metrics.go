// Package metrics exposes prometheus collectors for the problem lifecycle and
// the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helpdesk"

type Recorder struct {
	problemsCreated *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	assignments     prometheus.Counter
	deletions       prometheus.Counter
	slaBreaches     prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewRecorder registers all collectors on a fresh registry so several
// recorders can live in one process (tests, CLI subcommands).
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		problemsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problems_created_total",
				Help:      "Total number of problems reported.",
			},
			[]string{"priority"},
		),
		statusChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problem_status_changes_total",
				Help:      "Total number of problem status changes.",
			},
			[]string{"from", "to"},
		),
		assignments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problem_assignments_total",
				Help:      "Total number of problems assigned to specialists.",
			},
		),
		deletions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problems_deleted_total",
				Help:      "Total number of soft-deleted problems.",
			},
		),
		slaBreaches: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "problem_sla_breaches_total",
				Help:      "Total number of problems flagged as SLA breached.",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		r.problemsCreated,
		r.statusChanges,
		r.assignments,
		r.deletions,
		r.slaBreaches,
		r.httpRequests,
		r.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Recorder) ProblemCreated(priority string) {
	r.problemsCreated.WithLabelValues(priority).Inc()
}

func (r *Recorder) StatusChanged(from, to string) {
	r.statusChanges.WithLabelValues(from, to).Inc()
}

func (r *Recorder) ProblemAssigned() {
	r.assignments.Inc()
}

func (r *Recorder) ProblemDeleted() {
	r.deletions.Inc()
}

func (r *Recorder) SLABreached(count int) {
	r.slaBreaches.Add(float64(count))
}

// ObserveHTTP records one request. path should be the route template, not
// the raw URL, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.httpRequests.WithLabelValues(method, path, code).Inc()
	r.httpLatency.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Noop discards everything. Used when metrics are disabled.
type Noop struct{}

func (Noop) ProblemCreated(string)                          {}
func (Noop) StatusChanged(string, string)                   {}
func (Noop) ProblemAssigned()                               {}
func (Noop) ProblemDeleted()                                {}
func (Noop) SLABreached(int)                                {}
func (Noop) ObserveHTTP(string, string, int, time.Duration) {}
