package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cofix/internal/apperrors"
	"cofix/internal/models"
)

const postColumns = `email, post_id, benefit_type, scheme_name, issue_name, description,
        activity_description, comment, image, latitude, longitude, status, urgency, create_date`

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

// postRow mirrors the posts table; most columns are nullable in rows written
// before defaults were enforced.
type postRow struct {
	Email               string          `db:"email"`
	PostID              int64           `db:"post_id"`
	BenefitType         sql.NullString  `db:"benefit_type"`
	SchemeName          sql.NullString  `db:"scheme_name"`
	IssueName           sql.NullString  `db:"issue_name"`
	Description         sql.NullString  `db:"description"`
	ActivityDescription sql.NullString  `db:"activity_description"`
	Comment             sql.NullString  `db:"comment"`
	Image               sql.NullString  `db:"image"`
	Latitude            sql.NullFloat64 `db:"latitude"`
	Longitude           sql.NullFloat64 `db:"longitude"`
	Status              sql.NullString  `db:"status"`
	Urgency             sql.NullString  `db:"urgency"`
	CreateDate          sql.NullTime    `db:"create_date"`
}

func (r postRow) toModel() models.Post {
	post := models.Post{
		Email:               r.Email,
		PostID:              r.PostID,
		BenefitType:         models.BenefitType(r.BenefitType.String),
		SchemeName:          r.SchemeName.String,
		IssueName:           r.IssueName.String,
		Description:         r.Description.String,
		ActivityDescription: r.ActivityDescription.String,
		Comment:             r.Comment.String,
		Status:              models.Status(r.Status.String),
		Urgency:             models.Urgency(r.Urgency.String),
		CreateDate:          r.CreateDate.Time,
	}
	if r.Image.Valid {
		image := r.Image.String
		post.Image = &image
	}
	// location is nullable as a unit
	if r.Latitude.Valid && r.Longitude.Valid {
		post.Location = &models.Location{Lat: r.Latitude.Float64, Lng: r.Longitude.Float64}
	}
	return post
}

func imageArg(image *string) sql.NullString {
	if image == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *image, Valid: true}
}

func locationArgs(loc *models.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Lat, Valid: true}, sql.NullFloat64{Float64: loc.Lng, Valid: true}
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// Create inserts the post and fills PostID from posts_post_id_seq.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts
        (email, benefit_type, scheme_name, issue_name, description, activity_description,
         comment, image, latitude, longitude, status, urgency, create_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING post_id
    `

	lat, lng := locationArgs(post.Location)

	var postID int64
	err := r.DB.QueryRowxContext(ctx, query,
		post.Email,
		string(post.BenefitType),
		post.SchemeName,
		post.IssueName,
		post.Description,
		post.ActivityDescription,
		post.Comment,
		imageArg(post.Image),
		lat,
		lng,
		string(post.Status),
		string(post.Urgency),
		post.CreateDate,
	).Scan(&postID)
	if err != nil {
		return apperrors.Persistence("create post", err)
	}

	post.PostID = postID
	return nil
}

// Update rewrites the mutable columns of the row addressed by the composite
// key. email, post_id and create_date are never part of the SET list.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
        UPDATE posts SET
            benefit_type = $3,
            scheme_name = $4,
            issue_name = $5,
            description = $6,
            activity_description = $7,
            comment = $8,
            image = $9,
            latitude = $10,
            longitude = $11,
            status = $12,
            urgency = $13
        WHERE email = $1 AND post_id = $2
    `

	lat, lng := locationArgs(post.Location)

	result, err := r.DB.ExecContext(ctx, query,
		post.Email,
		post.PostID,
		string(post.BenefitType),
		post.SchemeName,
		post.IssueName,
		post.Description,
		post.ActivityDescription,
		post.Comment,
		imageArg(post.Image),
		lat,
		lng,
		string(post.Status),
		string(post.Urgency),
	)
	if err != nil {
		return apperrors.Persistence("update post", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("update post", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("update post", fmt.Sprintf("post %d of %s not found", post.PostID, post.Email))
	}

	return nil
}

func (r *PostRepositoryImpl) FindByKey(ctx context.Context, key models.PostKey) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE email = $1 AND post_id = $2`

	var row postRow
	err := r.DB.GetContext(ctx, &row, query, key.Email, key.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("find post", fmt.Sprintf("post %d of %s not found", key.PostID, key.Email))
		}
		return nil, apperrors.Persistence("find post", err)
	}

	post := row.toModel()
	return &post, nil
}

// FindByPostID returns the first row carrying postID. Ids come from a global
// sequence, so in practice there is at most one.
func (r *PostRepositoryImpl) FindByPostID(ctx context.Context, postID int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1 ORDER BY email LIMIT 1`

	var row postRow
	err := r.DB.GetContext(ctx, &row, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("find post", fmt.Sprintf("post %d not found", postID))
		}
		return nil, apperrors.Persistence("find post", err)
	}

	post := row.toModel()
	return &post, nil
}

func (r *PostRepositoryImpl) FindByEmail(ctx context.Context, email string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE email = $1 ORDER BY post_id`
	return r.selectPosts(ctx, "find posts by email", query, email)
}

func (r *PostRepositoryImpl) FindByEmailAndType(ctx context.Context, email string, benefitType models.BenefitType) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE email = $1 AND benefit_type = $2 ORDER BY post_id`
	return r.selectPosts(ctx, "find posts by email and type", query, email, string(benefitType))
}

func (r *PostRepositoryImpl) FindByType(ctx context.Context, benefitType models.BenefitType) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE benefit_type = $1 ORDER BY post_id`
	return r.selectPosts(ctx, "find posts by type", query, string(benefitType))
}

func (r *PostRepositoryImpl) FindAll(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY post_id`
	return r.selectPosts(ctx, "find all posts", query)
}

// DeleteByPostID removes every row with postID, whatever its email. Deleting
// an id that does not exist is not an error.
func (r *PostRepositoryImpl) DeleteByPostID(ctx context.Context, postID int64) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	if _, err := r.DB.ExecContext(ctx, query, postID); err != nil {
		return apperrors.Persistence("delete post", err)
	}

	return nil
}

func (r *PostRepositoryImpl) selectPosts(ctx context.Context, op, query string, args ...any) ([]models.Post, error) {
	var rows []postRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.Persistence(op, err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts, nil
}
