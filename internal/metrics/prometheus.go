package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "playground"

type Prometheus struct {
	Epochs   *prometheus.CounterVec
	Resets   *prometheus.CounterVec
	Loss     *prometheus.GaugeVec
	Accuracy *prometheus.GaugeVec
	Duration *prometheus.HistogramVec
}

func NewPrometheusMetrics() Prometheus {
	labels := []string{"pattern", "activation"}
	return Prometheus{
		Epochs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "epochs_total",
				Help:      "Number of trained epochs.",
			}, labels),
		Resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resets_total",
				Help:      "Number of session resets.",
			}, []string{"pattern"}),
		Loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "loss",
				Help:      "Mean squared error of the last epoch.",
			}, labels),
		Accuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "accuracy",
				Help:      "Share of correctly classified points after the last epoch.",
			}, labels),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "epoch_duration_seconds",
				Help:      "Duration of a training epoch.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			}, labels),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Epochs, p.Resets, p.Loss, p.Accuracy, p.Duration}
}
