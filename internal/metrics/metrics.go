package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchhub_lookups_total",
			Help: "Watch-order lookups by outcome.",
		},
		[]string{"outcome"},
	)

	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watchhub_lookup_duration_seconds",
			Help:    "Lookup latency by outcome.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	DatasetFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchhub_dataset_fetches_total",
			Help: "Dataset downloads by result.",
		},
		[]string{"result"},
	)
)

// MustRegister installs the collectors on the default registry.
// Call once from main before serving /metrics.
func MustRegister() {
	prometheus.MustRegister(LookupsTotal, LookupDuration, DatasetFetches)
}

// ObserveLookup records one finished lookup.
func ObserveLookup(outcome string, d time.Duration) {
	LookupsTotal.WithLabelValues(outcome).Inc()
	LookupDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
