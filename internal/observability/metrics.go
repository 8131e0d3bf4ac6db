package observability

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private prometheus registry so tests can build as many as they like.
// Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	websiteOps *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitebuilder_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitebuilder_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sitebuilder_http_requests_inflight",
			Help: "HTTP requests currently being served.",
		}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitebuilder_llm_requests_total",
			Help: "Chat completion calls by model and status.",
		}, []string{"model", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitebuilder_llm_request_duration_seconds",
			Help:    "Chat completion latency by model.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 90, 120, 180},
		}, []string{"model"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitebuilder_llm_tokens_total",
			Help: "Tokens consumed by model and direction.",
		}, []string{"model", "direction"}),
		websiteOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitebuilder_website_operations_total",
			Help: "Website lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.websiteOps,
	)
	return m
}

var current atomic.Pointer[Metrics]

// SetCurrent installs m as the process-wide metrics sink used by clients that are not
// constructed with one.
func SetCurrent(m *Metrics) { current.Store(m) }

func Current() *Metrics { return current.Load() }

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveLLMRequest(model, status string, d time.Duration, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(model, status).Inc()
	m.llmLatency.WithLabelValues(model).Observe(d.Seconds())
	if inputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		m.llmTokens.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// ObserveWebsiteOp counts one lifecycle operation ("generate", "customize", "download",
// "delete") with its outcome ("ok" or an error code).
func (m *Metrics) ObserveWebsiteOp(operation, outcome string) {
	if m == nil {
		return
	}
	m.websiteOps.WithLabelValues(operation, outcome).Inc()
}
