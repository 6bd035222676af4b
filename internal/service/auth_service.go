package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"cofix/internal/apperrors"
	"cofix/internal/config"
	"cofix/internal/models"
	"cofix/internal/repository"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name" validate:"required"`
	NickName    string `json:"nickName"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
}

type RegisterAdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required"`
	AdminLevel int    `json:"adminLevel" validate:"min=1,max=4"`
	AdminCode  string `json:"adminCode" validate:"required,len=6,numeric"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*models.User, string, error)
	RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*models.AdminUser, string, error)
	LoginAdmin(ctx context.Context, email, password string) (*models.AdminUser, string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	cfg       *config.Config
	logger    *slog.Logger
	hashCost  int
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, adminRepo repository.AdminRepository, cfg *config.Config, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		cfg:       cfg,
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

func (s *authService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, "", apperrors.Validation("register user", validationMessage(err))
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		NickName:     req.NickName,
		PhoneNumber:  req.PhoneNumber,
		Country:      req.Country,
		Gender:       req.Gender,
		Address:      req.Address,
		CreateDate:   s.now(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.generateAccessToken(user.Email, RoleUser)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("login user", "invalid email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("login user", "invalid email or password")
	}

	token, err := s.generateAccessToken(user.Email, RoleUser)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (*models.AdminUser, string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return nil, "", apperrors.Validation("register admin", validationMessage(err))
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	admin := &models.AdminUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		AdminLevel:   req.AdminLevel,
		AdminCode:    req.AdminCode,
		CreatedAt:    s.now(),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, "", err
	}

	token, err := s.generateAccessToken(admin.Email, RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

// LoginAdmin also stamps lastLogin; failing to save it does not fail the login.
func (s *authService) LoginAdmin(ctx context.Context, email, password string) (*models.AdminUser, string, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("login admin", "invalid email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("login admin", "invalid email or password")
	}

	now := s.now()
	admin.LastLogin = &now
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		s.logger.Warn("could not record admin login", "admin_email", admin.Email, "error", err)
	}

	token, err := s.generateAccessToken(admin.Email, RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("validate token", err.Error())
	}
	if !token.Valid || claims.Email == "" {
		return nil, apperrors.Unauthorized("validate token", "invalid token")
	}

	return claims, nil
}

func (s *authService) generateAccessToken(email, role string) (string, error) {
	now := s.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// validationMessage flattens validator errors into "field: tag" pairs.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
