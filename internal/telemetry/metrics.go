package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the AURA backend.
type Metrics struct {
	RequestTotal       *prometheus.CounterVec
	RequestDurationMs  *prometheus.HistogramVec
	StageDurationMs    *prometheus.HistogramVec
	ProviderLatencyMs  *prometheus.HistogramVec
	ClassifierHitTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_request_total",
			Help: "Total number of requests processed by the pipeline.",
		}, []string{"status", "category"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_request_duration_ms",
			Help:    "Total request duration in milliseconds (including provider latency).",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"status"}),

		StageDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_stage_duration_ms",
			Help:    "Per-stage processing duration in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		}, []string{"stage"}),

		ProviderLatencyMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_provider_latency_ms",
			Help:    "Model provider call latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"provider", "model"}),

		ClassifierHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_classifier_hit_total",
			Help: "Classifier resolutions by layer (instant, cache, fast, provider, fallback).",
		}, []string{"layer"}),
	}
}

// RecordRequest records metrics for a completed pipeline run.
func (m *Metrics) RecordRequest(status, category string, durationMs float64) {
	m.RequestTotal.WithLabelValues(status, category).Inc()
	m.RequestDurationMs.WithLabelValues(status).Observe(durationMs)
}

// RecordStage records a single stage duration.
func (m *Metrics) RecordStage(stage string, durationMs float64) {
	m.StageDurationMs.WithLabelValues(stage).Observe(durationMs)
}

// RecordProvider records one provider call's latency.
func (m *Metrics) RecordProvider(provider, model string, durationMs float64) {
	m.ProviderLatencyMs.WithLabelValues(provider, model).Observe(durationMs)
}

// RecordClassifierHit counts which classifier layer resolved a transcript.
func (m *Metrics) RecordClassifierHit(layer string) {
	m.ClassifierHitTotal.WithLabelValues(layer).Inc()
}
