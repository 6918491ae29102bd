package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReviewMetrics records outcomes of the admin request review workflow.
type ReviewMetrics struct {
	duration    *prometheus.HistogramVec
	reviews     *prometheus.CounterVec
	stepFailure *prometheus.CounterVec
}

// NewReviewMetrics registers the review metrics on the provided registerer.
func NewReviewMetrics(reg prometheus.Registerer) *ReviewMetrics {
	if reg == nil {
		return &ReviewMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_request_review_duration_seconds",
		Help:    "Duration of admin request reviews in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"decision"})
	reviews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_request_reviews_total",
		Help: "Completed admin request reviews by decision and result.",
	}, []string{"decision", "result"})
	stepFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_request_review_step_failures_total",
		Help: "Provisioning steps that failed during a review.",
	}, []string{"step"})
	reg.MustRegister(duration, reviews, stepFailure)
	return &ReviewMetrics{
		duration:    duration,
		reviews:     reviews,
		stepFailure: stepFailure,
	}
}

// ObserveDuration records how long a review took for the given decision.
func (r *ReviewMetrics) ObserveDuration(decision string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(decision)).Observe(duration.Seconds())
}

// IncReview counts a completed review with its result label.
func (r *ReviewMetrics) IncReview(decision, result string) {
	if r == nil || r.reviews == nil {
		return
	}
	r.reviews.WithLabelValues(normalizeLabel(decision), normalizeLabel(result)).Inc()
}

// IncStepFailure counts a failed provisioning step.
func (r *ReviewMetrics) IncStepFailure(step string) {
	if r == nil || r.stepFailure == nil {
		return
	}
	r.stepFailure.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
