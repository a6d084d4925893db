// Package metrics exposes Prometheus collectors for prediction traffic.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// Failure reasons
const (
	ReasonSchema     = "schema"
	ReasonClassifier = "classifier"
	ReasonUpload     = "upload"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	predictions     *prometheus.CounterVec
	failures        *prometheus.CounterVec
	batchRows       prometheus.Histogram
	publishFailures prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "churn_predictions_total",
			Help: "Scored customers by prediction mode and risk tier.",
		}, []string{"mode", "tier"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "churn_prediction_failures_total",
			Help: "Failed prediction requests by mode and reason.",
		}, []string{"mode", "reason"}),
		batchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "churn_batch_rows",
			Help:    "Rows per batch prediction request.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "churn_history_publish_failures_total",
			Help: "Prediction records that could not be published to history.",
		}),
	}

	m.registry.MustRegister(
		m.predictions,
		m.failures,
		m.batchRows,
		m.publishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObservePrediction(mode string, tier domain.RiskTier) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(mode, tier.String()).Inc()
}

func (m *Metrics) ObserveFailure(mode, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(mode, reason).Inc()
}

func (m *Metrics) ObserveBatchRows(rows int) {
	if m == nil {
		return
	}
	m.batchRows.Observe(float64(rows))
}

func (m *Metrics) ObservePublishFailure(records int) {
	if m == nil {
		return
	}
	m.publishFailures.Add(float64(records))
}
