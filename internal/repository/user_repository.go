package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"cofix/internal/apperrors"
	"cofix/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

type userRow struct {
	Email       string         `db:"email"`
	Name        string         `db:"name"`
	Password    string         `db:"password"`
	NickName    sql.NullString `db:"nick_name"`
	PhoneNumber sql.NullString `db:"phone_number"`
	Country     sql.NullString `db:"country"`
	Gender      sql.NullString `db:"gender"`
	Address     sql.NullString `db:"address"`
	CreateDate  time.Time      `db:"create_date"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.Password,
		NickName:     r.NickName.String,
		PhoneNumber:  r.PhoneNumber.String,
		Country:      r.Country.String,
		Gender:       r.Gender.String,
		Address:      r.Address.String,
		CreateDate:   r.CreateDate,
	}
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser expects user.PasswordHash to be already hashed.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password, nick_name, phone_number, country, gender, address, create_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.NickName,
		user.PhoneNumber,
		user.Country,
		user.Gender,
		user.Address,
		user.CreateDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("create user", fmt.Sprintf("user %s already exists", user.Email))
		}
		return apperrors.Persistence("create user", err)
	}

	return nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow

	query := `SELECT email, name, password, nick_name, phone_number, country, gender, address, create_date
		FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &row, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("find user", fmt.Sprintf("user %s not found", email))
		}
		return nil, apperrors.Persistence("find user", err)
	}

	return row.toModel(), nil
}

// UpdateUser writes the profile fields; password and create_date stay as stored.
func (r *userRepository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET name = $2, nick_name = $3, phone_number = $4, country = $5, gender = $6, address = $7
		WHERE email = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.NickName,
		user.PhoneNumber,
		user.Country,
		user.Gender,
		user.Address,
	)
	if err != nil {
		return apperrors.Persistence("update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("update user", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("update user", fmt.Sprintf("user %s not found", user.Email))
	}

	return nil
}
