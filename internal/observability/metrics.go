package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters and histograms for the batch pipeline.
type Metrics struct {
	RowsConsumed        prometheus.Counter
	InvalidObservations prometheus.Counter
	DaysAggregated      prometheus.Counter
	DatasetRuns         prometheus.Counter
	RiskDays            *prometheus.CounterVec // label: state={Stable,Straining,Failure}
	RunDuration         prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_risk",
			Name:      "rows_consumed_total",
			Help:      "Total hourly observation rows fed into the pipeline.",
		}),
		InvalidObservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_risk",
			Name:      "invalid_observations_total",
			Help:      "Total input rows rejected for a missing timestamp.",
		}),
		DaysAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_risk",
			Name:      "days_aggregated_total",
			Help:      "Total finalized daily accumulators produced.",
		}),
		DatasetRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wind_risk",
			Name:      "dataset_runs_total",
			Help:      "Total completed dataset runs.",
		}),
		RiskDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wind_risk",
			Name:      "risk_days_total",
			Help:      "Classified days by risk state.",
		}, []string{"state"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wind_risk",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete dataset run, fetch to sinks.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// NewMetrics creates all pipeline metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsConsumed,
		m.InvalidObservations,
		m.DaysAggregated,
		m.DatasetRuns,
		m.RiskDays,
		m.RunDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// PushMetrics pushes the default registry to a Pushgateway. Batch runs
// terminate, so pushing after the run is the only way scrape-based tooling
// ever sees these numbers.
func PushMetrics(gatewayURL, job string) error {
	return push.New(gatewayURL, job).
		Gatherer(prometheus.DefaultGatherer).
		Push()
}
