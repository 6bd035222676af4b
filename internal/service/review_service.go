package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cofix/internal/apperrors"
	"cofix/internal/models"
	"cofix/internal/repository"
)

type ReviewService interface {
	AddReview(ctx context.Context, email, comment string) (*models.Review, error)
	ListByEmail(ctx context.Context, email string) ([]models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, now: time.Now}
}

func (s *reviewService) AddReview(ctx context.Context, email, comment string) (*models.Review, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, apperrors.Validation("add review", "comment is required")
	}

	review := &models.Review{
		ReviewID:   uuid.New().String(),
		Email:      email,
		Comment:    comment,
		CreateDate: s.now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByEmail(ctx context.Context, email string) ([]models.Review, error) {
	return s.reviewRepo.GetByEmail(ctx, email)
}
