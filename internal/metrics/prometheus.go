package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fit-score outcomes used as the "outcome" label.
const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeError    = "error"
)

// LLM buckets in seconds; model calls are slow compared to HTTP handling.
var llmBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

// Manager owns every Prometheus collector for the service.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	fitScores       *prometheus.CounterVec
	profilesCreated prometheus.Counter
	rubricDeviation prometheus.Counter

	llmRequests        *prometheus.CounterVec
	llmRequestDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a fresh registry that also carries the Go and process collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "kickinn",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fitScores = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_scores_total",
		Help:      "Fit-score requests by outcome (computed, cached, error)",
	}, []string{"outcome"})

	m.profilesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "executor_profiles_created_total",
		Help:      "Default executor profiles synthesized on first request",
	})

	m.rubricDeviation = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_score_rubric_deviations_total",
		Help:      "Model replies whose overall score disagreed with the weighted sub-scores",
	})

	m.llmRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_requests_total",
		Help:      "LLM completion calls by result",
	}, []string{"result"})

	m.llmRequestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_request_duration_seconds",
		Help:      "LLM completion latency in seconds",
		Buckets:   llmBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter",
	}, []string{"endpoint"})
}

func (m *Manager) active() bool {
	return m != nil && m.enabled
}

// RecordFitScore counts one fit-score request with the given outcome.
func (m *Manager) RecordFitScore(outcome string) {
	if !m.active() {
		return
	}
	m.fitScores.WithLabelValues(outcome).Inc()
}

// RecordProfileCreated counts a synthesized default profile.
func (m *Manager) RecordProfileCreated() {
	if !m.active() {
		return
	}
	m.profilesCreated.Inc()
}

// RecordRubricDeviation counts a model overall score that was replaced.
func (m *Manager) RecordRubricDeviation() {
	if !m.active() {
		return
	}
	m.rubricDeviation.Inc()
}

// RecordLLMRequest records the duration and result of one completion call.
func (m *Manager) RecordLLMRequest(result string, d time.Duration) {
	if !m.active() {
		return
	}
	m.llmRequests.WithLabelValues(result).Inc()
	m.llmRequestDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method string, status int, d time.Duration) {
	if !m.active() {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(d.Seconds())
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *Manager) RecordRateLimited(endpoint string) {
	if !m.active() {
		return
	}
	m.rateLimited.WithLabelValues(endpoint).Inc()
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
