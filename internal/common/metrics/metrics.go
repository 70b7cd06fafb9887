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

	// APIRequests counts remote API calls by method and outcome (success or error code).
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_api_requests_total",
			Help: "Remote API requests by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	LookupCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobportal_lookup_cache_total",
			Help: "Lookup list cache results",
		},
		[]string{"list", "result"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_wizard_transitions_total",
			Help: "Profile wizard state transitions",
		},
		[]string{"from", "to"},
	)

	WizardStepRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_wizard_step_rejections_total",
			Help: "Advance or submit attempts rejected by step validation",
		},
		[]string{"step"},
	)

	ProfileSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_submissions_total",
			Help: "Profile completion submissions by outcome",
		},
		[]string{"outcome"},
	)

	JobApplyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_apply_attempts_total",
			Help: "Job application attempts by outcome",
		},
		[]string{"outcome"},
	)
)
