package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	PostsCreated           *prometheus.CounterVec
	PostsDeleted           prometheus.Counter
	StatusUpdates          *prometheus.CounterVec
	NotificationFailures   prometheus.Counter
	ImageArchiveFailures   prometheus.Counter
	ResolvedCounterFailure prometheus.Counter
	DashboardRequests      prometheus.Counter
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PostsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cofix_posts_created_total",
			Help: "Total number of posts created, by benefit type",
		}, []string{"benefit_type"}),
		PostsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "cofix_posts_deleted_total",
			Help: "Total number of delete-by-id requests served",
		}),
		StatusUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cofix_post_status_updates_total",
			Help: "Total number of admin status updates, by new status",
		}, []string{"status"}),
		NotificationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "cofix_notification_failures_total",
			Help: "Notifications that could not be sent after a post was created",
		}),
		ImageArchiveFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "cofix_image_archive_failures_total",
			Help: "Image archive uploads or removals that failed",
		}),
		ResolvedCounterFailure: f.NewCounter(prometheus.CounterOpts{
			Name: "cofix_admin_resolved_counter_failures_total",
			Help: "Admin resolved-counter increments that failed after a status update",
		}),
		DashboardRequests: f.NewCounter(prometheus.CounterOpts{
			Name: "cofix_dashboard_requests_total",
			Help: "Total number of dashboard aggregations computed",
		}),
	}
}

// The helpers below accept a nil receiver so services can run without metrics.

func (m *Metrics) IncPostsCreated(benefitType string) {
	if m == nil {
		return
	}
	m.PostsCreated.WithLabelValues(benefitType).Inc()
}

func (m *Metrics) IncPostsDeleted() {
	if m == nil {
		return
	}
	m.PostsDeleted.Inc()
}

func (m *Metrics) IncStatusUpdates(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) IncNotificationFailures() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}

func (m *Metrics) IncImageArchiveFailures() {
	if m == nil {
		return
	}
	m.ImageArchiveFailures.Inc()
}

func (m *Metrics) IncResolvedCounterFailures() {
	if m == nil {
		return
	}
	m.ResolvedCounterFailure.Inc()
}

func (m *Metrics) IncDashboardRequests() {
	if m == nil {
		return
	}
	m.DashboardRequests.Inc()
}
