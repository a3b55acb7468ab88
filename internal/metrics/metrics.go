// Package metrics defines and exposes the Prometheus gauges, counters, and
// histograms for queue depth, job outcomes, submissions, sandbox run time
// and HTTP request latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueueDepth is the gauge for the length of the execution queue. It is
	// registered and exported, but no code in this service sets it.
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "syla_queue_depth",
		Help: "Current number of pending job ids in the execution queue",
	})

	// JobsTotal counts jobs reaching each terminal status.
	JobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "syla_jobs_total",
		Help: "Total number of jobs by terminal status",
	}, []string{"status"})

	// SubmissionsTotal counts accepted submissions.
	SubmissionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "syla_submissions_total",
		Help: "Total number of accepted submissions",
	})

	// SandboxRunDuration measures wall-clock time spent inside Sandbox.Run.
	SandboxRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "syla_sandbox_run_duration_seconds",
		Help:    "Time spent running a single sandboxed container",
		Buckets: prometheus.DefBuckets,
	})

	// HTTPRequestDuration is the histogram for HTTP front door request
	// latency. It is registered and exported, but no middleware in this
	// service observes it.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syla_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		QueueDepth,
		JobsTotal,
		SubmissionsTotal,
		SandboxRunDuration,
		HTTPRequestDuration,
	)
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
