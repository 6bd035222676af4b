package service

import (
	"context"
	"strings"

	"cofix/internal/apperrors"
	"cofix/internal/models"
	"cofix/internal/repository"
)

type AdminProfileUpdate struct {
	Name       string `json:"name"`
	AdminLevel int    `json:"adminLevel"`
}

type AdminService interface {
	GetProfile(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateProfile(ctx context.Context, email string, req AdminProfileUpdate) (*models.AdminUser, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
}

func NewAdminService(adminRepo repository.AdminRepository) AdminService {
	return &adminService{adminRepo: adminRepo}
}

func (s *adminService) GetProfile(ctx context.Context, email string) (*models.AdminUser, error) {
	return s.adminRepo.FindByEmail(ctx, email)
}

// UpdateProfile only touches name and level. The code, counter, password
// and timestamps belong to other flows.
func (s *adminService) UpdateProfile(ctx context.Context, email string, req AdminProfileUpdate) (*models.AdminUser, error) {
	if req.AdminLevel != 0 {
		if err := validate.Var(req.AdminLevel, "min=1,max=4"); err != nil {
			return nil, apperrors.Validation("update admin profile", "adminLevel must be between 1 and 4")
		}
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		admin.Name = name
	}
	if req.AdminLevel != 0 {
		admin.AdminLevel = req.AdminLevel
	}

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}
