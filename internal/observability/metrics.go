package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ai_service"

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	apiRequests      *prometheus.CounterVec
	apiLatency       *prometheus.HistogramVec
	apiInflight      prometheus.Gauge
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	healthStatus     *prometheus.GaugeVec
	healthLatency    *prometheus.GaugeVec
	cacheLookups     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	latency := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	return &Metrics{
		reg: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "api_requests_total",
			Help: "API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "api_request_duration_seconds",
			Help: "API request latency by method/route/status.", Buckets: latency,
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		providerRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "provider_requests_total",
			Help: "AI provider calls by provider/operation/outcome.",
		}, []string{"provider", "operation", "outcome"}),
		providerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "provider_request_duration_seconds",
			Help: "AI provider call latency, cache hits excluded.", Buckets: latency,
		}, []string{"provider", "operation"}),
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "upstream_requests_total",
			Help: "HTTP requests to upstream APIs by service/endpoint/status.",
		}, []string{"service", "endpoint", "status"}),
		upstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "upstream_request_duration_seconds",
			Help: "Upstream HTTP latency by service/endpoint.", Buckets: latency,
		}, []string{"service", "endpoint"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "fallbacks_total",
			Help: "Degradation steps taken by operation/kind.",
		}, []string{"operation", "kind"}),
		healthStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dependency_health",
			Help: "Last health check per dependency: 1 healthy, 0.5 degraded, 0 unhealthy, -1 unknown.",
		}, []string{"service"}),
		healthLatency: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dependency_health_latency_seconds",
			Help: "Latency of the last health check per dependency.",
		}, []string{"service"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_lookups_total",
			Help: "Cache lookups by tier/result.",
		}, []string{"tier", "result"}),
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orDefault(method, "UNKNOWN")
	route = orDefault(route, "unknown")
	status = orDefault(status, "0")
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveProviderRequest(provider, operation, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	provider = orDefault(provider, "unknown")
	operation = orDefault(operation, "unknown")
	m.providerRequests.WithLabelValues(provider, operation, orDefault(outcome, "unknown")).Inc()
	if dur > 0 {
		m.providerLatency.WithLabelValues(provider, operation).Observe(dur.Seconds())
	}
}

func (m *Metrics) ObserveUpstreamRequest(service, endpoint, status string, dur time.Duration) {
	if m == nil {
		return
	}
	service = orDefault(service, "unknown")
	endpoint = orDefault(endpoint, "unknown")
	m.upstreamRequests.WithLabelValues(service, endpoint, orDefault(status, "0")).Inc()
	m.upstreamLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func (m *Metrics) ObserveFallback(operation, kind string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(orDefault(operation, "unknown"), orDefault(kind, "unknown")).Inc()
}

func (m *Metrics) ObserveHealth(service, status string, latency time.Duration) {
	if m == nil {
		return
	}
	service = orDefault(service, "unknown")
	m.healthStatus.WithLabelValues(service).Set(healthValue(status))
	m.healthLatency.WithLabelValues(service).Set(latency.Seconds())
}

func (m *Metrics) ObserveCacheLookup(tier, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(orDefault(tier, "unknown"), orDefault(result, "unknown")).Inc()
}

func healthValue(status string) float64 {
	switch status {
	case "healthy":
		return 1
	case "degraded":
		return 0.5
	case "unhealthy":
		return 0
	default:
		return -1
	}
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// StatusLabel renders an HTTP status for metric labels.
func StatusLabel(code int) string { return strconv.Itoa(code) }
