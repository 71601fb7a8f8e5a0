package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// modelPrice is USD per 1000 tokens.
type modelPrice struct {
	input  float64
	output float64
}

// Fixed per-model price table for cost estimation.
var pricing = map[string]modelPrice{
	"gemini-2.5-flash":                         {input: 0.00025, output: 0.0005},
	"anthropic.claude-3-haiku-20240307-v1:0":   {input: 0.00025, output: 0.00125},
	"anthropic.claude-3-5-sonnet-20240620-v1:0": {input: 0.003, output: 0.015},
}

// Registry owns every process-wide collector. Constructed once at startup
// and injected into request handlers; the underlying Prometheus vectors make
// concurrent increments from simultaneously handled requests safe.
type Registry struct {
	registry *prometheus.Registry

	requestLatency    *prometheus.HistogramVec
	retrievalLatency  prometheus.Histogram
	generationLatency prometheus.Histogram

	tokenUsage *prometheus.CounterVec
	cost       *prometheus.CounterVec
	requests   *prometheus.CounterVec

	guardrailViolations *prometheus.CounterVec
	guardrailChecks     *prometheus.CounterVec

	activeRequests prometheus.Gauge
}

// NewRegistry constructs and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "llm_request_latency_seconds",
			Help:    "Time spent processing LLM requests",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}, []string{"endpoint", "status"}),

		retrievalLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "retrieval_latency_seconds",
			Help:    "Time spent on vector retrieval",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0},
		}),

		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "generation_latency_seconds",
			Help:    "Time spent on LLM generation",
			Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		}),

		tokenUsage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_token_usage_total",
			Help: "Total tokens used",
		}, []string{"type"}),

		cost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_cost_usd_total",
			Help: "Estimated LLM cost in USD",
		}, []string{"model"}),

		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total LLM requests",
		}, []string{"endpoint", "status"}),

		guardrailViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guardrail_violations_total",
			Help: "Total guardrail violations",
		}, []string{"type", "rule"}),

		guardrailChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "guardrail_checks_total",
			Help: "Total guardrail checks performed",
		}, []string{"type", "result"}),

		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "llm_active_requests",
			Help: "Number of currently active LLM requests",
		}),
	}

	r.registry.MustRegister(
		r.requestLatency,
		r.retrievalLatency,
		r.generationLatency,
		r.tokenUsage,
		r.cost,
		r.requests,
		r.guardrailViolations,
		r.guardrailChecks,
		r.activeRequests,
	)

	return r
}

// Handler exposes all collectors in the Prometheus text exposition format
// for the external monitoring scraper.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ActiveRequests reads the current value of the in-flight gauge.
func (r *Registry) ActiveRequests() float64 {
	var m dto.Metric
	if err := r.activeRequests.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}
