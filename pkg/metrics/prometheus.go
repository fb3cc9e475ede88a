package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	cacheOutcomes   *prometheus.CounterVec
	backoffsTotal   *prometheus.CounterVec
	classifications *prometheus.CounterVec
	evictionsTotal  *prometheus.CounterVec
	retainedSize    *prometheus.GaugeVec
	mergeDuration   prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphalabs_upstream_fetches_total",
				Help: "Total number of upstream fetch attempts by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		cacheOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphalabs_cache_reads_total",
				Help: "Cache reads by source and outcome (fresh, stale, miss)",
			},
			[]string{"source", "outcome"},
		),
		backoffsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphalabs_backoffs_total",
				Help: "Number of backoff windows opened by source",
			},
			[]string{"source"},
		),
		classifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphalabs_classifications_total",
				Help: "Headlines classified by institution and content type",
			},
			[]string{"institution", "type"},
		),
		evictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alphalabs_retention_evictions_total",
				Help: "Items evicted from retention stores",
			},
			[]string{"store"},
		),
		retainedSize: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "alphalabs_retention_items",
				Help: "Items currently held in retention stores",
			},
			[]string{"store"},
		),
		mergeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "alphalabs_merge_duration_seconds",
				Help:    "Duration of timeline merge refreshes in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFetch records an upstream fetch attempt and its outcome.
func (r *Recorder) RecordFetch(source, outcome string) {
	r.fetchesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordCacheOutcome records a cache read outcome for a source.
func (r *Recorder) RecordCacheOutcome(source, outcome string) {
	r.cacheOutcomes.WithLabelValues(source, outcome).Inc()
}

// RecordBackoff records a backoff window opening for a source.
func (r *Recorder) RecordBackoff(source string) {
	r.backoffsTotal.WithLabelValues(source).Inc()
}

// RecordClassification records an accepted headline classification.
func (r *Recorder) RecordClassification(institution, contentType string) {
	r.classifications.WithLabelValues(institution, contentType).Inc()
}

// RecordEvictions records retention evictions for a store.
func (r *Recorder) RecordEvictions(store string, n int) {
	r.evictionsTotal.WithLabelValues(store).Add(float64(n))
}

// RecordRetainedSize records the current size of a retention store.
func (r *Recorder) RecordRetainedSize(store string, n int) {
	r.retainedSize.WithLabelValues(store).Set(float64(n))
}

// RecordMergeDuration records how long a timeline merge refresh took.
func (r *Recorder) RecordMergeDuration(d time.Duration) {
	r.mergeDuration.Observe(d.Seconds())
}
