package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the spot and alert services.
type Metrics struct {
	SpotsCreated     prometheus.Counter
	SpotsDeleted     prometheus.Counter
	AlertsCreated    *prometheus.CounterVec // labels: alert_type
	SpotsPromoted    prometheus.Counter
	NearbyResults    prometheus.Histogram
	AggregationCache *prometheus.CounterVec // labels: result={hit,miss,error}

	AggregationDuration *prometheus.HistogramVec // labels: period
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SpotsCreated,
		m.SpotsDeleted,
		m.AlertsCreated,
		m.SpotsPromoted,
		m.NearbyResults,
		m.AggregationCache,
		m.AggregationDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// multiple tests can build their own.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SpotsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmap",
			Name:      "spots_created_total",
			Help:      "Total spots created.",
		}),
		SpotsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmap",
			Name:      "spots_deleted_total",
			Help:      "Total spots deleted.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spotmap",
			Name:      "alerts_created_total",
			Help:      "Total alerts created by alert type.",
		}, []string{"alert_type"}),
		SpotsPromoted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spotmap",
			Name:      "spots_promoted_total",
			Help:      "Spots whose category was switched to alert by an incoming alert.",
		}),
		NearbyResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spotmap",
			Name:      "nearby_results",
			Help:      "Number of spots returned by a proximity query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		AggregationCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spotmap",
			Name:      "aggregation_cache_total",
			Help:      "Aggregation cache lookups by result.",
		}, []string{"result"}),
		AggregationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spotmap",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of an uncached alert aggregation scan.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"period"}),
	}
}
