package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "provenance"

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	WorkerRuns  *prometheus.CounterVec
	Articles    prometheus.Gauge
}

// New registers the collectors on reg. A nil reg registers nothing, which
// is what tests that do not scrape metrics want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_cache_hits_total",
			Help:      "Article listings served from the aged cache.",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_cache_misses_total",
			Help:      "Article listings loaded from the database.",
		}),
		WorkerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_runs_total",
			Help:      "Endpoint worker executions by result.",
		}, []string{"result"}),
		Articles: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "articles",
			Help:      "Articles stored after the last feed refresh.",
		}),
	}
}

// ObserveRun records one worker execution.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.WorkerRuns.WithLabelValues(result).Inc()
}
