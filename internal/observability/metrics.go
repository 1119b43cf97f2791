package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for asset loading and rendering.
type Metrics struct {
	AssetLoads        *prometheus.CounterVec   // labels: outcome={ready,failed,superseded}
	AssetFetch        *prometheus.HistogramVec // labels: asset
	SupersededLoads   prometheus.Counter
	LoadGeneration    prometheus.Gauge
	Renders           *prometheus.CounterVec // labels: view={page,scene,overlay,csv,png,sparkline}
	AssetCacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AssetLoads,
		m.AssetFetch,
		m.SupersededLoads,
		m.LoadGeneration,
		m.Renders,
		m.AssetCacheLookups,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build many instances.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "asset_loads_total",
			Help:      "Load generations by outcome.",
		}, []string{"outcome"}),
		AssetFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gridmap",
			Name:      "asset_fetch_duration_seconds",
			Help:      "Time to fetch and parse one asset.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"asset"}),
		SupersededLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "superseded_loads_total",
			Help:      "Completed loads discarded because a newer generation had started.",
		}),
		LoadGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gridmap",
			Name:      "load_generation",
			Help:      "Generation of the currently committed asset snapshot.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "renders_total",
			Help:      "Rendered views by kind.",
		}, []string{"view"}),
		AssetCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridmap",
			Name:      "asset_cache_total",
			Help:      "Asset cache lookups by result.",
		}, []string{"result"}),
	}
}
