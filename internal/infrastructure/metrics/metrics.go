// Package metrics exposes Prometheus collectors for the mentorship engine.
//
// Usage:
//
//	metrics.RecordRequest("matched")
//	metrics.RecordMatch(metrics.PathDirect, 66.67)
//	metrics.SetWaitlistSize(12)
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Match paths.
const (
	PathDirect = "direct"
	PathQueue  = "queue"
)

var (
	// Matching

	// RequestsTotal counts mentor requests by outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_requests_total",
			Help: "Total number of mentor requests by outcome",
		},
		[]string{"outcome"},
	)

	// MatchesTotal counts created mentorships by the path that created them.
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_matches_total",
			Help: "Total number of mentorships created",
		},
		[]string{"path"},
	)

	// CompatibilityScore tracks the persisted compatibility of new mentorships.
	CompatibilityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mentorship_compatibility_score",
			Help:    "Compatibility score of created mentorships (0-100)",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// EndedTotal counts completed and cancelled mentorships.
	EndedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_ended_total",
			Help: "Total number of mentorships ended by final status",
		},
		[]string{"status"},
	)

	// Waitlist

	// WaitlistSize is the queue length observed after the last operation.
	WaitlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mentorship_waitlist_size",
			Help: "Number of mentees currently waiting for a mentor",
		},
	)

	// WaitlistExpiredTotal counts entries removed by the expiry policy.
	WaitlistExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mentorship_waitlist_expired_total",
			Help: "Total number of waitlist entries removed by expiry",
		},
	)

	// Suggestions

	// SuggestionsTotal counts suggestion requests by result.
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_suggestions_total",
			Help: "Total number of connection suggestion requests",
		},
		[]string{"result"},
	)

	// Jobs

	// JobRunsTotal counts scheduler job executions.
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"},
	)

	// JobDuration tracks scheduler job durations.
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentorship_job_duration_seconds",
			Help:    "Duration of scheduled job runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// Cache

	// CacheLookupsTotal counts interest cache lookups by result (hit, miss, bypass).
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorship_interest_cache_lookups_total",
			Help: "Interest cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordRequest records the outcome of a mentor request.
func RecordRequest(outcome string) {
	RequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordMatch records a created mentorship.
func RecordMatch(path string, score float64) {
	MatchesTotal.WithLabelValues(path).Inc()
	CompatibilityScore.Observe(score)
}

// RecordQueueMatches records n mentorships created by waitlist processing.
func RecordQueueMatches(n int) {
	if n > 0 {
		MatchesTotal.WithLabelValues(PathQueue).Add(float64(n))
	}
}

// RecordEnded records a completed or cancelled mentorship.
func RecordEnded(status string) {
	EndedTotal.WithLabelValues(status).Inc()
}

// SetWaitlistSize updates the waitlist gauge.
func SetWaitlistSize(n int) {
	WaitlistSize.Set(float64(n))
}

// RecordExpired records entries removed by expiry.
func RecordExpired(n int) {
	if n > 0 {
		WaitlistExpiredTotal.Add(float64(n))
	}
}

// RecordSuggestions records a suggestion request result.
func RecordSuggestions(result string) {
	SuggestionsTotal.WithLabelValues(result).Inc()
}

// RecordJobRun records a scheduler job execution.
func RecordJobRun(job string, success bool, d time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	JobRunsTotal.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// RecordCacheLookup records an interest cache lookup.
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}
