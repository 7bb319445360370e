package live

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "loom").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "loom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for the preview server.
type metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	pushesTotal    prometheus.Counter
	pushErrors     prometheus.Counter
	activeSockets  prometheus.Gauge
}

var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

// InitMetrics initializes the collector set with custom options. Must run
// before the first server is created; later calls are no-ops.
func InitMetrics(opts ...MetricsOption) {
	globalMetricsOnce.Do(func() {
		cfg := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&cfg)
		}
		globalMetrics = newMetrics(cfg)
	})
}

// sharedMetrics returns the collector set, initializing defaults when
// InitMetrics was never called.
func sharedMetrics() *metrics {
	InitMetrics()
	return globalMetrics
}

func newMetrics(cfg MetricsConfig) *metrics {
	factory := promauto.With(cfg.Registry)
	return &metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "renders_total",
			Help:        "Total page renders.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"page"}),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "render_duration_seconds",
			Help:        "Page render latency.",
			Buckets:     cfg.Buckets,
			ConstLabels: cfg.ConstLabels,
		}, []string{"page"}),
		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "render_errors_total",
			Help:        "Renders that returned an error.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"page"}),
		pushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "socket_pushes_total",
			Help:        "Subtree updates pushed over WebSocket.",
			ConstLabels: cfg.ConstLabels,
		}),
		pushErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "socket_push_errors_total",
			Help:        "WebSocket write failures.",
			ConstLabels: cfg.ConstLabels,
		}),
		activeSockets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Name:        "active_sockets",
			Help:        "Currently connected live sockets.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
