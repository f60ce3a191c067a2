// Package metrics exposes Prometheus counters for API calls, the response
// cache and classification runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis run outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Registry holds every hotcold metric. It is separate from the default
// registry so textfile dumps only carry our series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	APICallsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotcold_api_calls_total",
			Help: "Total number of stats API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotcold_api_call_duration_seconds",
			Help:    "Duration of stats API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheHitsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcold_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMissesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcold_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	AnalysisRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotcold_analysis_runs_total",
			Help: "Total number of classification runs",
		},
		[]string{"outcome"},
	)

	AnalysisGamesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "hotcold_analysis_games_total",
			Help: "Total number of games classified",
		},
	)

	SilhouetteScore = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "hotcold_silhouette_score",
			Help: "Silhouette score of the last classification with a defined score",
		},
	)
)

// RecordAPICall records one stats API call.
func RecordAPICall(endpoint, status string, d time.Duration) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordCache records a response cache lookup.
func RecordCache(hit bool) {
	if hit {
		CacheHitsTotal.Inc()
		return
	}
	CacheMissesTotal.Inc()
}

// RecordAnalysis records one classification run. silhouette is nil when the
// score was skipped.
func RecordAnalysis(outcome string, games int, silhouette *float64) {
	AnalysisRunsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		AnalysisGamesTotal.Add(float64(games))
	}
	if silhouette != nil {
		SilhouetteScore.Set(*silhouette)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// WriteTextfile dumps the registry to path for the node exporter textfile
// collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
