// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	CreditScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_score_computed_total",
			Help: "Credit scores computed, by risk level",
		},
		[]string{"risk_level"},
	)

	CreditScoreValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_score_value",
			Help:    "Distribution of computed credit scores",
			Buckets: prometheus.LinearBuckets(300, 50, 13),
		},
	)

	CreditScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_score_cache_hits_total",
			Help: "Score cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	AssessmentsSearched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessments_searched_total",
			Help: "Assessment searches, by status filter",
		},
		[]string{"status"},
	)
)

// ObserveScore records one computed score.
func ObserveScore(riskLevel string, score int) {
	CreditScoresComputed.WithLabelValues(riskLevel).Inc()
	CreditScoreValue.Observe(float64(score))
}
