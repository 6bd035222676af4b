package service

import (
	"context"
	"log/slog"
	"strings"

	"cofix/internal/models"
	"cofix/internal/repository"
)

// AdminProgressTracker keeps the per-admin count of resolved issues.
type AdminProgressTracker interface {
	MarkResolvedIfStatusSolved(ctx context.Context, adminEmail string, newStatus models.Status) error
}

type progressTracker struct {
	adminRepo repository.AdminRepository
	logger    *slog.Logger
}

func NewAdminProgressTracker(adminRepo repository.AdminRepository, logger *slog.Logger) AdminProgressTracker {
	return &progressTracker{adminRepo: adminRepo, logger: logger}
}

// MarkResolvedIfStatusSolved adds one to the admin's counter when newStatus
// is SOLVED. An unknown or empty admin email is not an error.
func (t *progressTracker) MarkResolvedIfStatusSolved(ctx context.Context, adminEmail string, newStatus models.Status) error {
	if !newStatus.Is(models.StatusSolved) {
		return nil
	}
	if strings.TrimSpace(adminEmail) == "" {
		t.logger.Debug("resolved counter skipped, no admin given")
		return nil
	}

	found, err := t.adminRepo.IncrementIssuesResolved(ctx, adminEmail)
	if err != nil {
		return err
	}
	if !found {
		t.logger.Debug("resolved counter skipped, admin not found", "admin_email", adminEmail)
	}
	return nil
}
