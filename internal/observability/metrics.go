package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation pipeline.
type Metrics struct {
	BundlesConsumed   prometheus.Counter
	ReportsPublished  prometheus.Counter
	AggregationErrors prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Reports broken down by the combined alert level.
	ReportsByAlertLevel *prometheus.CounterVec // label: level={green,yellow,orange,red}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		BundlesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "bundles_consumed_total",
			Help:      "Total loss-model bundles read from the source topic.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "reports_published_total",
			Help:      "Total impact reports written to the sink topic.",
		}),
		AggregationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "aggregation_errors_total",
			Help:      "Total bundles that failed to aggregate into a report.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_impact",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_impact",
			Name:      "batch_size",
			Help:      "Number of bundles per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_impact",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-aggregate-publish cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ReportsByAlertLevel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_impact",
			Name:      "reports_by_alert_level_total",
			Help:      "Published reports by combined alert level.",
		}, []string{"level"}),
	}

	prometheus.MustRegister(
		m.BundlesConsumed,
		m.ReportsPublished,
		m.AggregationErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ReportsByAlertLevel,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BundlesConsumed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_impact", Name: "bundles_consumed_total"}),
		ReportsPublished:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_impact", Name: "reports_published_total"}),
		AggregationErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_impact", Name: "aggregation_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_impact", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_impact", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_impact", Name: "batch_processing_duration_seconds"}),
		ReportsByAlertLevel:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_impact", Name: "reports_by_alert_level_total"}, []string{"level"}),
	}
}
