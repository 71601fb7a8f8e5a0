package metrics

import (
	"time"
)

// Tracker records one request's timings into the shared registry. Owned
// exclusively by the handler that created it — never shared across requests,
// no synchronization needed on its own fields.
type Tracker struct {
	registry *Registry
	endpoint string
	model    string

	startTime     time.Time
	retrievalTime float64
	generateTime  float64
	inputTokens   int
	outputTokens  int
}

// NewTracker creates a request-scoped tracker. One per inbound request.
func (r *Registry) NewTracker(endpoint, model string) *Tracker {
	return &Tracker{registry: r, endpoint: endpoint, model: model}
}

// StartRequest records the start timestamp and increments the shared
// active-request gauge.
func (t *Tracker) StartRequest() {
	t.startTime = time.Now()
	t.registry.activeRequests.Inc()
}

// EndRequest observes elapsed time keyed by (endpoint, status), counts the
// request, and decrements the active-request gauge. Must be called exactly
// once per StartRequest, including on error paths — the gauge pairing keeps
// it non-negative.
func (t *Tracker) EndRequest(status string) {
	if !t.startTime.IsZero() {
		latency := time.Since(t.startTime).Seconds()
		t.registry.requestLatency.WithLabelValues(t.endpoint, status).Observe(latency)
		t.registry.requests.WithLabelValues(t.endpoint, status).Inc()
	}
	t.registry.activeRequests.Dec()
}

// TrackRetrieval records retrieval latency in seconds.
func (t *Tracker) TrackRetrieval(duration float64) {
	t.retrievalTime = duration
	t.registry.retrievalLatency.Observe(duration)
}

// TrackGeneration records generation latency and token usage, and adds the
// estimated cost from the per-model price table to the shared cost counter.
func (t *Tracker) TrackGeneration(duration float64, inputTokens, outputTokens int) {
	t.generateTime = duration
	t.inputTokens = inputTokens
	t.outputTokens = outputTokens

	t.registry.generationLatency.Observe(duration)
	t.registry.tokenUsage.WithLabelValues("input").Add(float64(inputTokens))
	t.registry.tokenUsage.WithLabelValues("output").Add(float64(outputTokens))

	if price, ok := pricing[t.model]; ok {
		cost := float64(inputTokens)/1000*price.input +
			float64(outputTokens)/1000*price.output
		t.registry.cost.WithLabelValues(t.model).Add(cost)
	}
}

// TrackGuardrail counts a guardrail check result and, when not passed, the
// violation keyed by (guard type, rule).
func (t *Tracker) TrackGuardrail(guardType, rule string, passed bool) {
	result := "blocked"
	if passed {
		result = "passed"
	}
	t.registry.guardrailChecks.WithLabelValues(guardType, result).Inc()

	if !passed {
		t.registry.guardrailViolations.WithLabelValues(guardType, rule).Inc()
	}
}
