// internal/matching/metrics.go

package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	batchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_batch_runs_total",
			Help: "Batch match runs by outcome",
		},
		[]string{"outcome"},
	)

	matchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tadhana_matches_created_total",
			Help: "Matches created by source",
		},
		[]string{"source"},
	)

	pairConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tadhana_pair_conflicts_total",
			Help: "Pairs skipped because a user was no longer waiting",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tadhana_compatibility_scores",
			Help:    "Distribution of scores of created matches",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	batchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tadhana_batch_run_seconds",
			Help:    "Wall time of batch match runs",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)
)

func RecordBatchRun(outcome string, duration time.Duration) {
	batchRunsTotal.WithLabelValues(outcome).Inc()
	batchDuration.Observe(duration.Seconds())
}

func RecordMatch(source Source, score int) {
	matchesTotal.WithLabelValues(string(source)).Inc()
	compatibilityScores.Observe(float64(score))
}

func RecordPairConflict() {
	pairConflicts.Inc()
}
