package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cofix/internal/config"
	"cofix/internal/database"
	handlers "cofix/internal/handler"
	"cofix/internal/metrics"
	"cofix/internal/middleware"
	"cofix/internal/notification"
	"cofix/internal/repository"
	"cofix/internal/service"
	"cofix/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Handler  http.Handler
}

// New connects to Postgres (and MinIO when enabled) and wires the HTTP stack.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var archive storage.ImageArchive
	if cfg.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("init minio: %w", err)
		}
		archive = minioClient
		logger.Info("image archive enabled", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.BucketName)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, archive, notification.New(cfg.SMTP, logger), metrics.New(reg), logger)

	if cfg.SeedDemoData {
		if err := services.Post.SeedDemoScheme(ctx); err != nil {
			logger.Warn("demo data was not seeded", "error", err)
		}
	}

	h := handlers.NewHandlers(repo, services, cfg, logger)

	return &App{
		DB:       db,
		Repo:     repo,
		Services: services,
		Handler:  NewRouter(h, services.Auth, reg, cfg, logger),
	}, nil
}

func NewRouter(h *handlers.Handlers, tokens middleware.TokenValidator, gatherer prometheus.Gatherer, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	h.RegisterRoutes(r)

	return middleware.Chain(
		r,
		middleware.RoleMiddleware("/api/admin/", service.RoleAdmin),
		middleware.AuthMiddleware(tokens),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		middleware.LoggingMiddleware(logger),
	)
}

func (a *App) Close() error {
	return a.DB.CloseDB()
}
