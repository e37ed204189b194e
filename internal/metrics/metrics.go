package metrics

import (
	"net/http"
	"time"

	"github.com/0X4227/Arina/internal/backend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "arina"

// Metrics implements backend.Metrics with Prometheus collectors on a private registry
type Metrics struct {
	config   backend.MetricsConfig
	registry *prometheus.Registry

	bootstrapAttempts *prometheus.CounterVec
	appConstructions  prometheus.Counter
	bootstrapDuration prometheus.Histogram
	handleRequests    *prometheus.CounterVec
	registeredApps    prometheus.Gauge
}

// NewMetrics creates and registers the collectors
func NewMetrics(config backend.MetricsConfig) (*Metrics, error) {
	m := &Metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
		bootstrapAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bootstrap_attempts_total",
				Help:      "Client bootstrap attempts by result.",
			},
			[]string{"result"},
		),
		appConstructions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_constructions_total",
			Help:      "Calls into the client factory.",
		}),
		bootstrapDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bootstrap_duration_seconds",
			Help:      "Time spent ensuring the client is initialized.",
			Buckets:   prometheus.DefBuckets,
		}),
		handleRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handle_requests_total",
				Help:      "Service handle lookups by service and result.",
			},
			[]string{"service", "result"},
		),
		registeredApps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_apps",
			Help:      "Client instances currently registered.",
		}),
	}

	collectors := []prometheus.Collector{
		m.bootstrapAttempts,
		m.appConstructions,
		m.bootstrapDuration,
		m.handleRequests,
		m.registeredApps,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// IncBootstrapAttempts increments bootstrap attempts by result
func (m *Metrics) IncBootstrapAttempts(result string) {
	m.bootstrapAttempts.WithLabelValues(result).Inc()
}

// IncAppConstructions increments the factory call counter
func (m *Metrics) IncAppConstructions() {
	m.appConstructions.Inc()
}

// ObserveBootstrapDuration records how long EnsureInitialized took
func (m *Metrics) ObserveBootstrapDuration(duration time.Duration) {
	m.bootstrapDuration.Observe(duration.Seconds())
}

// IncHandleRequests increments handle lookups
func (m *Metrics) IncHandleRequests(service string, result string) {
	m.handleRequests.WithLabelValues(service, result).Inc()
}

// SetRegisteredApps sets the registered instances gauge
func (m *Metrics) SetRegisteredApps(count int) {
	m.registeredApps.Set(float64(count))
}

// Registry returns the Prometheus registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format. It is nil when metrics
// are disabled, which leaves the metrics path unrouted.
func (m *Metrics) Handler() http.Handler {
	if !m.config.Enabled {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
