package router

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/routetree/pkg/guard"
)

// MetricsConfig configures the Prometheus metrics of a router.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics of a router.
type MetricsOption func(*MetricsConfig)

// WithMetricsNamespace sets the metrics namespace.
func WithMetricsNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithMetricsSubsystem sets the metrics subsystem.
func WithMetricsSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithMetricsConstLabels sets constant labels for all metrics.
func WithMetricsConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithMetricsBuckets sets the histogram buckets.
func WithMetricsBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithMetricsRegistry sets the Prometheus registry.
func WithMetricsRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "routetree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics of a router. A nil *metrics records
// nothing.
type metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration prometheus.Histogram
	inflight           prometheus.Gauge
	guardChecks        *prometheus.CounterVec
	configLoads        *prometheus.CounterVec
}

// Metrics are registered once per registry; routers sharing a registry
// share them.
var (
	registeredMetrics   = make(map[prometheus.Registerer]*metrics)
	registeredMetricsMu sync.Mutex
)

func metricsFor(config MetricsConfig) *metrics {
	registeredMetricsMu.Lock()
	defer registeredMetricsMu.Unlock()
	if m, ok := registeredMetrics[config.Registry]; ok {
		return m
	}
	m := initMetrics(config)
	registeredMetrics[config.Registry] = m
	return m
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		navigationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time from scheduling a navigation to its last event",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_inflight",
			Help:        "Number of navigations whose pipeline is running",
			ConstLabels: config.ConstLabels,
		}),

		guardChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "guard_checks_total",
			Help:        "Total guard and resolver runs by kind and result",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "result"}),

		configLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "config_loads_total",
			Help:        "Total deferred route configuration loads by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
	}
}

func (m *metrics) navigationStarted() {
	if m != nil {
		m.inflight.Inc()
	}
}

func (m *metrics) navigationFinished(outcome EventType, d time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Dec()
	m.navigationsTotal.WithLabelValues(outcomeLabel(outcome)).Inc()
	m.navigationDuration.Observe(d.Seconds())
}

func (m *metrics) guardRan(kind guard.Kind, _ string, allowed bool, err error) {
	if m == nil {
		return
	}
	result := "allowed"
	switch {
	case err != nil:
		result = "error"
	case !allowed:
		result = "denied"
	}
	m.guardChecks.WithLabelValues(string(kind), result).Inc()
}

func (m *metrics) configLoaded(_ string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.configLoads.WithLabelValues(result).Inc()
}

func outcomeLabel(t EventType) string {
	switch t {
	case NavigationEnd:
		return "end"
	case NavigationCancel:
		return "cancel"
	default:
		return "error"
	}
}
