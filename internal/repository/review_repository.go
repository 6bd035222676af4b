package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"cofix/internal/apperrors"
	"cofix/internal/models"
)

type reviewRepository struct {
	db *sqlx.DB
}

type reviewRow struct {
	ReviewID   string    `db:"review_id"`
	Email      string    `db:"email"`
	Comment    string    `db:"comment"`
	CreateDate time.Time `db:"create_date"`
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (review_id, email, comment, create_date)
		VALUES (:review_id, :email, :comment, :create_date)
	`

	if _, err := r.db.NamedExecContext(ctx, query, reviewRow(*review)); err != nil {
		return apperrors.Persistence("create review", err)
	}

	return nil
}

func (r *reviewRepository) GetByEmail(ctx context.Context, email string) ([]models.Review, error) {
	query := `SELECT review_id, email, comment, create_date FROM reviews WHERE email = $1 ORDER BY create_date DESC`

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, email); err != nil {
		return nil, apperrors.Persistence("get reviews", err)
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, models.Review(row))
	}
	return reviews, nil
}
