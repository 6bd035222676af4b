package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"cofix/internal/apperrors"
	"cofix/internal/models"
)

type ImageRepositoryImpl struct {
	db *sqlx.DB
}

type imageRow struct {
	PostID      int64     `db:"post_id"`
	Email       string    `db:"email"`
	ObjectName  string    `db:"object_name"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}

func NewImageRepository(db *sqlx.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

func (r *ImageRepositoryImpl) Create(ctx context.Context, image *models.ImageObject) error {
	query := `
		INSERT INTO post_images (post_id, email, object_name, content_type, created_at)
		VALUES (:post_id, :email, :object_name, :content_type, :created_at)
	`

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}

	row := imageRow{
		PostID:      image.PostID,
		Email:       image.Email,
		ObjectName:  image.ObjectName,
		ContentType: image.ContentType,
		CreatedAt:   image.CreatedAt,
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return apperrors.Persistence("create image", err)
	}

	return nil
}

func (r *ImageRepositoryImpl) GetByPostID(ctx context.Context, postID int64) ([]models.ImageObject, error) {
	query := `SELECT post_id, email, object_name, content_type, created_at
		FROM post_images WHERE post_id = $1 ORDER BY created_at`

	var rows []imageRow
	if err := r.db.SelectContext(ctx, &rows, query, postID); err != nil {
		return nil, apperrors.Persistence("get images", err)
	}

	images := make([]models.ImageObject, 0, len(rows))
	for _, row := range rows {
		images = append(images, models.ImageObject(row))
	}
	return images, nil
}

func (r *ImageRepositoryImpl) DeleteByPostID(ctx context.Context, postID int64) error {
	query := `DELETE FROM post_images WHERE post_id = $1`

	if _, err := r.db.ExecContext(ctx, query, postID); err != nil {
		return apperrors.Persistence("delete images", err)
	}

	return nil
}
