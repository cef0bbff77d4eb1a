// Package metrics provides Prometheus metrics export for the analysis
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports orchestration metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	orchestrations       *prometheus.CounterVec
	orchestrationLatency *prometheus.HistogramVec
	agentRuns            *prometheus.CounterVec
	agentLatency         *prometheus.HistogramVec
	insightsGenerated    prometheus.Counter
	feedbackEvents       *prometheus.CounterVec
	llmFallbacks         prometheus.Counter
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default exporter configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{registry: registry}

	e.orchestrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "orchestrations_total",
			Help:      "Total number of orchestration passes",
		},
		[]string{"scenario"},
	)

	e.orchestrationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "orchestration_latency_seconds",
			Help:      "Orchestration pass latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"scenario"},
	)

	e.agentRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "agent_runs_total",
			Help:      "Total number of agent invocations",
		},
		[]string{"agent", "status"},
	)

	e.agentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "agent_latency_seconds",
			Help:      "Agent invocation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"agent"},
	)

	e.insightsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "insights_generated_total",
			Help:      "Total number of insights produced by agents",
		},
	)

	e.feedbackEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "feedback_events_total",
			Help:      "Total number of recorded feedback events",
		},
		[]string{"action"},
	)

	e.llmFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aura",
			Subsystem: "ai",
			Name:      "llm_fallbacks_total",
			Help:      "Total number of canned responses served on LLM failure",
		},
	)

	registry.MustRegister(
		e.orchestrations,
		e.orchestrationLatency,
		e.agentRuns,
		e.agentLatency,
		e.insightsGenerated,
		e.feedbackEvents,
		e.llmFallbacks,
	)

	return e
}

// RecordOrchestration records one completed orchestration pass.
func (e *Exporter) RecordOrchestration(scenario string, latency time.Duration, insights int) {
	e.orchestrations.WithLabelValues(scenario).Inc()
	e.orchestrationLatency.WithLabelValues(scenario).Observe(latency.Seconds())
	e.insightsGenerated.Add(float64(insights))
}

// RecordAgentRun records one agent invocation.
func (e *Exporter) RecordAgentRun(agent string, latency time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	e.agentRuns.WithLabelValues(agent, status).Inc()
	e.agentLatency.WithLabelValues(agent).Observe(latency.Seconds())
}

// RecordFeedback records one feedback submission.
func (e *Exporter) RecordFeedback(action string) {
	e.feedbackEvents.WithLabelValues(action).Inc()
}

// RecordLLMFallback records one canned-response fallback.
func (e *Exporter) RecordLLMFallback() {
	e.llmFallbacks.Inc()
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
