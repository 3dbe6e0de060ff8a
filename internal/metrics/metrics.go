package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Observer is the process wide metrics collector.
var Observer = NewMetrics(prometheus.NewRegistry())

// Metrics records the training progress.
type Metrics struct {
	registry   *prometheus.Registry
	prometheus Prometheus
}

// NewMetrics creates the metrics and registers them with the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	p := NewPrometheusMetrics()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		registry:   registry,
		prometheus: p,
	}
}

// Epoch records a finished epoch.
func (m *Metrics) Epoch(pattern, activation string, loss, accuracy float64, duration time.Duration) {
	m.prometheus.Epochs.WithLabelValues(pattern, activation).Inc()
	m.prometheus.Loss.WithLabelValues(pattern, activation).Set(loss)
	m.prometheus.Accuracy.WithLabelValues(pattern, activation).Set(accuracy)
	m.prometheus.Duration.WithLabelValues(pattern, activation).Observe(duration.Seconds())
}

// Reset records a new session.
func (m *Metrics) Reset(pattern string) {
	m.prometheus.Resets.WithLabelValues(pattern).Inc()
}

// Handler exposes the metrics of the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
