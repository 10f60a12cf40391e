package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "frost_toolkit"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast collector and the frost.met.no client.
type Metrics struct {
	ForecastCycles  *prometheus.CounterVec // labels: outcome={success,error}
	ForecastEntries prometheus.Counter
	EntriesLoaded   *prometheus.CounterVec // labels: sink={csv,kafka}
	PipelineRunning prometheus.Gauge
	LastSuccess     prometheus.Gauge

	CycleDuration prometheus.Histogram

	// frost.met.no metrics.
	FrostRequests    *prometheus.CounterVec   // labels: endpoint={sources,observations}, outcome={success,error,empty}
	FrostAPIDuration *prometheus.HistogramVec // labels: endpoint
	SourceCache      *prometheus.CounterVec   // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.ForecastCycles,
		m.ForecastEntries,
		m.EntriesLoaded,
		m.PipelineRunning,
		m.LastSuccess,
		m.CycleDuration,
		m.FrostRequests,
		m.FrostAPIDuration,
		m.SourceCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ForecastCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_cycles_total",
			Help:      "Forecast collection cycles by outcome.",
		}, []string{"outcome"}),
		ForecastEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_entries_total",
			Help:      "Forecast periods parsed from downloaded documents.",
		}),
		EntriesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecast_entries_loaded_total",
			Help:      "Forecast periods handed to each sink.",
		}, []string{"sink"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the forecast collector is active, 0 when shut down.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful collection cycle.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "forecast_cycle_duration_seconds",
			Help:      "Duration of a complete fetch-parse-store cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FrostRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frost_requests_total",
			Help:      "frost.met.no API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		FrostAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frost_api_duration_seconds",
			Help:      "frost.met.no request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		SourceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frost_source_cache_total",
			Help:      "Station lookups served from cache by result.",
		}, []string{"result"}),
	}
}
