package handlers

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"cofix/internal/config"
	"cofix/internal/repository"
	"cofix/internal/service"
)

type Handlers struct {
	PostService      service.PostService
	DashboardService service.DashboardService
	AuthService      service.AuthService
	UserService      service.UserService
	AdminService     service.AdminService
	ReviewService    service.ReviewService
	TablesRepo       repository.TablesRepository
	Cfg              *config.Config
	Validate         *validator.Validate
	Logger           *slog.Logger
}

func NewHandlers(repo *repository.Repository, services *service.Service, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		PostService:      services.Post,
		DashboardService: services.Dashboard,
		AuthService:      services.Auth,
		UserService:      services.User,
		AdminService:     services.Admin,
		ReviewService:    services.Review,
		TablesRepo:       repo.Tables,
		Cfg:              cfg,
		Validate:         validator.New(),
		Logger:           logger,
	}
}

type contextKey string

const (
	emailKey contextKey = "email"
	roleKey  contextKey = "role"
)

// WithIdentity stores the authenticated caller on ctx.
func WithIdentity(ctx context.Context, email, role string) context.Context {
	ctx = context.WithValue(ctx, emailKey, email)
	return context.WithValue(ctx, roleKey, role)
}

// IdentityFromContext returns the caller stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (email, role string, ok bool) {
	email, ok = ctx.Value(emailKey).(string)
	if !ok {
		return "", "", false
	}
	role, _ = ctx.Value(roleKey).(string)
	return email, role, true
}
