package service

import (
	"context"
	"strings"

	"cofix/internal/apperrors"
	"cofix/internal/models"
	"cofix/internal/repository"
)

type UserProfileUpdate struct {
	Name        string `json:"name"`
	NickName    string `json:"nickName"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
}

type UserService interface {
	GetProfile(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, email string, req UserProfileUpdate) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

// UpdateProfile rewrites the profile fields; password and createDate stay.
func (s *userService) UpdateProfile(ctx context.Context, email string, req UserProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	user.NickName = req.NickName
	user.PhoneNumber = req.PhoneNumber
	user.Country = req.Country
	user.Gender = req.Gender
	user.Address = req.Address

	if user.Name == "" {
		return nil, apperrors.Validation("update profile", "name is required")
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
