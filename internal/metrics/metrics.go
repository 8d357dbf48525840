// Package metrics exposes the process's Prometheus counters on a private
// registry, served by the API at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "standup"

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Tracker metrics
	EntriesSaved   prometheus.Counter
	EntriesEdited  *prometheus.CounterVec
	Summaries      *prometheus.CounterVec
	SummaryLatency *prometheus.HistogramVec

	// Scheduler metrics
	PromptsSent prometheus.Counter
	JobRuns     *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, so tests and
// multiple instances never collide on registration.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		EntriesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_saved_total",
			Help:      "Total number of notes recorded",
		}),
		EntriesEdited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_edited_total",
			Help:      "Total number of notes updated or deleted",
		}, []string{"action"}),
		Summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Summarization attempts by provider and outcome",
		}, []string{"provider", "outcome"}),
		SummaryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Time spent waiting on the model",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"provider"}),
		PromptsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_sent_total",
			Help:      "Total number of note reminders sent",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job executions",
		}, []string{"job", "status"}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.EntriesSaved,
		c.EntriesEdited,
		c.Summaries,
		c.SummaryLatency,
		c.PromptsSent,
		c.JobRuns,
	)
	return c
}

// ObserveSummary counts one summarization and, when the model was called,
// how long it took.
func (c *Collector) ObserveSummary(provider, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.Summaries.WithLabelValues(provider, outcome).Inc()
	if took > 0 {
		c.SummaryLatency.WithLabelValues(provider).Observe(took.Seconds())
	}
}

// ObserveRequest records one HTTP request against its route pattern.
func (c *Collector) ObserveRequest(method, route, status string, took time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
