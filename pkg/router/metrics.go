package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the router's Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "console").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is where the collectors are registered.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures router metrics.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsRegistry sets the registry the collectors are registered with.
func WithMetricsRegistry(reg prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = reg
	}
}

// WithMetricsBuckets sets the duration histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// Metrics records resolver activity. A nil *Metrics records nothing.
type Metrics struct {
	navigations    *prometheus.CounterVec
	navDuration    prometheus.Histogram
	redirects      prometheus.Counter
	moduleLoads    *prometheus.CounterVec
	loaderDuration *prometheus.HistogramVec
	loaderErrors   *prometheus.CounterVec
	superseded     prometheus.Counter
}

// NewMetrics creates and registers the router collectors.
//
// Collectors:
//   - console_router_navigations_total{outcome}: ok, not_found, loader_error, module_error, redirect_loop, canceled
//   - console_router_navigation_duration_seconds
//   - console_router_redirects_total
//   - console_router_module_loads_total{route,status}
//   - console_router_loader_duration_seconds{route}
//   - console_router_loader_errors_total{route}
//   - console_router_superseded_total
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "console",
		Subsystem: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "navigations_total",
			Help:      "Resolved navigations by outcome",
		}, []string{"outcome"}),

		navDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "navigation_duration_seconds",
			Help:      "Time from match to render, redirects included",
			Buckets:   config.Buckets,
		}),

		redirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "redirects_total",
			Help:      "Redirect instructions followed",
		}),

		moduleLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "module_loads_total",
			Help:      "Segment loads by route and status",
		}, []string{"route", "status"}),

		loaderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "loader_duration_seconds",
			Help:      "Loader execution time by route",
			Buckets:   config.Buckets,
		}, []string{"route"}),

		loaderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "loader_errors_total",
			Help:      "Loader failures by route",
		}, []string{"route"}),

		superseded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "superseded_total",
			Help:      "Navigations abandoned for a newer one",
		}),
	}
}

func (m *Metrics) navigation(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(outcome).Inc()
	m.navDuration.Observe(d.Seconds())
}

func (m *Metrics) redirect() {
	if m == nil {
		return
	}
	m.redirects.Inc()
}

func (m *Metrics) moduleLoad(route string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.moduleLoads.WithLabelValues(route, status).Inc()
}

func (m *Metrics) loader(route string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.loaderDuration.WithLabelValues(route).Observe(d.Seconds())
	if err != nil {
		m.loaderErrors.WithLabelValues(route).Inc()
	}
}

func (m *Metrics) supersede() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}
