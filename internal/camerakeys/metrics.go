package camerakeys

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts plugin activity. Each plugin registers its own collectors,
// so a process may run several plugins against separate registries.
type Metrics struct {
	registry prometheus.Gatherer

	zoomTransitions *prometheus.CounterVec
	zoomCancels     prometheus.Counter
	actions         *prometheus.CounterVec
	chatModes       *prometheus.CounterVec
	commands        *prometheus.CounterVec
	scriptErrors    *prometheus.CounterVec
	settingChanges  prometheus.Counter
	ticks           prometheus.Counter
	overlayVisible  prometheus.Gauge
}

// MetricsOption configures Metrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  *prometheus.Registry
}

// WithNamespace sets the metrics namespace. Default: "camerakeys".
func WithNamespace(namespace string) MetricsOption {
	return func(c *metricsConfig) {
		c.namespace = namespace
	}
}

// WithRegistry registers the collectors on registry instead of a fresh one.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *metricsConfig) {
		c.registry = registry
	}
}

// NewMetrics creates and registers the plugin collectors. Without
// WithRegistry they go to a private registry, never the global default.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{namespace: "camerakeys"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	factory := promauto.With(cfg.registry)

	return &Metrics{
		registry: cfg.registry,

		zoomTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "zoom_transitions_total",
			Help:      "Zoom state transitions by destination state",
		}, []string{"to"}),

		zoomCancels: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "zoom_cancels_total",
			Help:      "Active zooms cancelled by a manual zoom change",
		}),

		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "key_actions_total",
			Help:      "Actions dispatched from key events",
		}, []string{"action"}),

		chatModes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "chat_mode_changes_total",
			Help:      "Chat lock handling mode changes by destination mode",
		}, []string{"to"}),

		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "commands_applied_total",
			Help:      "Host commands applied on the client thread",
		}, []string{"command"}),

		scriptErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "script_errors_total",
			Help:      "Client script invocations that failed",
		}, []string{"script"}),

		settingChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "setting_changes_total",
			Help:      "Setting change notifications received",
		}),

		ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "ticks_total",
			Help:      "Client ticks processed",
		}),

		overlayVisible: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.namespace,
			Name:      "zoom_overlay_visible",
			Help:      "1 while the zoom indicator is shown",
		}),
	}
}

// Gatherer returns the registry holding the collectors.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
