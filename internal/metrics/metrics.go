// Package metrics provides Prometheus metrics for jobtrend.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts load cycles by source and outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrend",
			Name:      "fetch_total",
			Help:      "Total number of job source fetches",
		},
		[]string{"source", "status"},
	)

	// FetchDuration measures how long a source fetch took.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobtrend",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of job source fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	RecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobtrend",
			Name:      "records_loaded",
			Help:      "Records returned by the last successful fetch",
		},
	)

	RecordsDropped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobtrend",
			Name:      "records_dropped",
			Help:      "Records of the last fetch without a usable publish date",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobtrend",
			Name:      "sessions_active",
			Help:      "Dashboard sessions held in memory",
		},
	)
)

// RecordFetch records one completed fetch.
func RecordFetch(source string, err error, seconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FetchTotal.WithLabelValues(source, status).Inc()
	FetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordDataset publishes the size of the current dataset.
func RecordDataset(records, dropped int) {
	RecordsLoaded.Set(float64(records))
	RecordsDropped.Set(float64(dropped))
}

func SetSessions(n int) {
	SessionsActive.Set(float64(n))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
