package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"cofix/internal/models"
)

// PostRepository keeps two access paths over the posts table: the composite
// (email, post_id) key for reads and edits, and post_id alone for status
// changes and deletion.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	FindByKey(ctx context.Context, key models.PostKey) (*models.Post, error)
	FindByPostID(ctx context.Context, postID int64) (*models.Post, error)
	FindByEmail(ctx context.Context, email string) ([]models.Post, error)
	FindByEmailAndType(ctx context.Context, email string, benefitType models.BenefitType) ([]models.Post, error)
	FindByType(ctx context.Context, benefitType models.BenefitType) ([]models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	DeleteByPostID(ctx context.Context, postID int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Update(ctx context.Context, admin *models.AdminUser) error
	IncrementIssuesResolved(ctx context.Context, email string) (bool, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByEmail(ctx context.Context, email string) ([]models.Review, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.ImageObject) error
	GetByPostID(ctx context.Context, postID int64) ([]models.ImageObject, error)
	DeleteByPostID(ctx context.Context, postID int64) error
}

type TablesRepository interface {
	MissingTables(ctx context.Context, expected []string) ([]string, error)
}

type Repository struct {
	User   UserRepository
	Admin  AdminRepository
	Post   PostRepository
	Review ReviewRepository
	Image  ImageRepository
	Tables TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Admin:  NewAdminRepository(db),
		Post:   NewPostRepository(db),
		Review: NewReviewRepository(db),
		Image:  NewImageRepository(db),
		Tables: NewTablesRepository(db),
	}
}

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
