package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cofix/internal/models"
	"cofix/internal/service"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, draft models.PostDraft) (*models.Post, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ReportIssue(ctx context.Context, report models.IssueReport) (*models.Post, error) {
	args := m.Called(ctx, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, key models.PostKey, patch models.PostPatch) (*models.Post, error) {
	args := m.Called(ctx, key, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdateStatus(ctx context.Context, postID int64, status, adminEmail string) (*models.Post, error) {
	args := m.Called(ctx, postID, status, adminEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

func (m *MockPostService) ListByEmail(ctx context.Context, email string) ([]models.Post, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) ListByEmailAndType(ctx context.Context, email, benefitType string) ([]models.Post, error) {
	args := m.Called(ctx, email, benefitType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) ListByType(ctx context.Context, benefitType string) ([]models.Post, error) {
	args := m.Called(ctx, benefitType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) ListAll(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostService) SeedDemoScheme(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Stats(ctx context.Context, adminEmail string) (*models.DashboardStats, error) {
	args := m.Called(ctx, adminEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterUser(ctx context.Context, req service.RegisterUserRequest) (*models.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) RegisterAdmin(ctx context.Context, req service.RegisterAdminRequest) (*models.AdminUser, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.AdminUser), args.String(1), args.Error(2)
}

func (m *MockAuthService) LoginAdmin(ctx context.Context, email, password string) (*models.AdminUser, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.AdminUser), args.String(1), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, email string, req service.UserProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, email, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) GetProfile(ctx context.Context, email string) (*models.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

func (m *MockAdminService) UpdateProfile(ctx context.Context, email string, req service.AdminProfileUpdate) (*models.AdminUser, error) {
	args := m.Called(ctx, email, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminUser), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) AddReview(ctx context.Context, email, comment string) (*models.Review, error) {
	args := m.Called(ctx, email, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListByEmail(ctx context.Context, email string) ([]models.Review, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) MissingTables(ctx context.Context, expected []string) ([]string, error) {
	args := m.Called(ctx, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
