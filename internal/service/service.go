package service

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"cofix/internal/config"
	"cofix/internal/metrics"
	"cofix/internal/notification"
	"cofix/internal/repository"
	"cofix/internal/storage"
)

// validate is shared by all services; validator caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

type Service struct {
	Post      PostService
	Dashboard DashboardService
	Tracker   AdminProgressTracker
	Auth      AuthService
	User      UserService
	Admin     AdminService
	Review    ReviewService
}

// NewService wires every service. archive may be nil when image archiving is
// disabled.
func NewService(
	rep *repository.Repository,
	cfg *config.Config,
	archive storage.ImageArchive,
	notifier notification.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	tracker := NewAdminProgressTracker(rep.Admin, logger)

	return &Service{
		Post:      NewPostService(rep.Post, rep.Image, tracker, archive, notifier, cfg, m, logger),
		Dashboard: NewDashboardService(rep.Post, rep.Admin, m),
		Tracker:   tracker,
		Auth:      NewAuthService(rep.User, rep.Admin, cfg, logger),
		User:      NewUserService(rep.User),
		Admin:     NewAdminService(rep.Admin),
		Review:    NewReviewService(rep.Review),
	}
}
