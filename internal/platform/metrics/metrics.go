package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	ProfilesCreated       prometheus.Counter
	MatchesComputed       prometheus.Counter
	HighCompatibilityHits prometheus.Counter
	DocumentsUploaded     *prometheus.CounterVec
	VerificationsApproved prometheus.Counter
	VerificationsRejected prometheus.Counter
	AdminActions          *prometheus.CounterVec
	RequestLatency        *prometheus.HistogramVec
	CompatibilityScore    prometheus.Histogram
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustnest_profiles_created_total",
			Help: "Total number of roommate profiles created",
		}),
		MatchesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustnest_matches_computed_total",
			Help: "Total number of compatibility scores computed",
		}),
		HighCompatibilityHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustnest_high_compatibility_total",
			Help: "Total number of computed matches above the high-compatibility threshold",
		}),
		DocumentsUploaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustnest_documents_uploaded_total",
			Help: "Total number of documents uploaded, by document type",
		}, []string{"document_type"}),
		VerificationsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustnest_verifications_approved_total",
			Help: "Total number of verification records transitioned to approved",
		}),
		VerificationsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trustnest_verifications_rejected_total",
			Help: "Total number of verification records transitioned to rejected",
		}),
		AdminActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trustnest_admin_actions_total",
			Help: "Total number of administrative actions, by action",
		}, []string{"action"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustnest_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by route and status code",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		CompatibilityScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustnest_compatibility_score",
			Help:    "Distribution of computed overall compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

// IncrementProfilesCreated increments the profiles created counter by 1
func (m *Metrics) IncrementProfilesCreated() {
	m.ProfilesCreated.Inc()
}

// ObserveMatch records a computed compatibility score and bumps the
// high-compatibility counter when it clears the threshold.
func (m *Metrics) ObserveMatch(score int, highCompatibility bool) {
	m.MatchesComputed.Inc()
	m.CompatibilityScore.Observe(float64(score))
	if highCompatibility {
		m.HighCompatibilityHits.Inc()
	}
}

// IncrementDocumentsUploaded increments the document upload counter for a type
func (m *Metrics) IncrementDocumentsUploaded(documentType string) {
	m.DocumentsUploaded.WithLabelValues(documentType).Inc()
}

// IncrementAdminAction increments the admin action counter for an action
func (m *Metrics) IncrementAdminAction(action string) {
	m.AdminActions.WithLabelValues(action).Inc()
}
