package watcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the poll loop does. Register it on the registry served at /metrics.
type Metrics struct {
	Cycles         prometheus.Counter
	CycleDuration  prometheus.Histogram
	Events         *prometheus.CounterVec
	FetchFailures  prometheus.Counter
	StoreFailures  *prometheus.CounterVec
	NotifyFailures prometheus.Counter
	Wallets        prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Cycles: f.NewCounter(prometheus.CounterOpts{
			Name: "hlwatcher_cycles_total",
			Help: "Completed poll cycles.",
		}),
		CycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hlwatcher_cycle_duration_seconds",
			Help:    "Time spent processing every wallet once, excluding the sleep.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hlwatcher_events_total",
			Help: "Classified position events by kind.",
		}, []string{"kind"}),
		FetchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hlwatcher_fetch_failures_total",
			Help: "Failed clearinghouseState requests.",
		}),
		StoreFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hlwatcher_store_failures_total",
			Help: "Failed position store operations by op (load, save).",
		}, []string{"op"}),
		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hlwatcher_notify_failures_total",
			Help: "Events that at least one sink failed to deliver.",
		}),
		Wallets: f.NewGauge(prometheus.GaugeOpts{
			Name: "hlwatcher_wallets",
			Help: "Wallets loaded for the current cycle.",
		}),
	}
}
