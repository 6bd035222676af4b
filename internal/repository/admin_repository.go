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

type adminRepository struct {
	db *sqlx.DB
}

type adminRow struct {
	Email          string       `db:"email"`
	Name           string       `db:"name"`
	Password       string       `db:"password"`
	AdminLevel     int          `db:"admin_level"`
	AdminCode      string       `db:"admin_code"`
	IssuesResolved int          `db:"issues_resolved"`
	CreatedAt      time.Time    `db:"created_at"`
	LastLogin      sql.NullTime `db:"last_login"`
}

func (r adminRow) toModel() *models.AdminUser {
	admin := &models.AdminUser{
		Email:          r.Email,
		Name:           r.Name,
		PasswordHash:   r.Password,
		AdminLevel:     r.AdminLevel,
		AdminCode:      r.AdminCode,
		IssuesResolved: r.IssuesResolved,
		CreatedAt:      r.CreatedAt,
	}
	if r.LastLogin.Valid {
		lastLogin := r.LastLogin.Time
		admin.LastLogin = &lastLogin
	}
	return admin
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, name, password, admin_level, admin_code, issues_resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		admin.Email,
		admin.Name,
		admin.PasswordHash,
		admin.AdminLevel,
		admin.AdminCode,
		admin.IssuesResolved,
		admin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("create admin", fmt.Sprintf("admin %s already exists", admin.Email))
		}
		return apperrors.Persistence("create admin", err)
	}

	return nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var row adminRow

	query := `SELECT email, name, password, admin_level, admin_code, issues_resolved, created_at, last_login
		FROM admin_users WHERE email = $1`

	err := r.db.GetContext(ctx, &row, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("find admin", fmt.Sprintf("admin %s not found", email))
		}
		return nil, apperrors.Persistence("find admin", err)
	}

	return row.toModel(), nil
}

// Update writes profile fields and last_login. issues_resolved is left to
// IncrementIssuesResolved.
func (r *adminRepository) Update(ctx context.Context, admin *models.AdminUser) error {
	query := `
		UPDATE admin_users
		SET name = $2, admin_level = $3, last_login = $4
		WHERE email = $1
	`

	var lastLogin sql.NullTime
	if admin.LastLogin != nil {
		lastLogin = sql.NullTime{Time: *admin.LastLogin, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, admin.Email, admin.Name, admin.AdminLevel, lastLogin)
	if err != nil {
		return apperrors.Persistence("update admin", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Persistence("update admin", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("update admin", fmt.Sprintf("admin %s not found", admin.Email))
	}

	return nil
}

// IncrementIssuesResolved bumps the counter in a single statement and reports
// whether the admin existed.
func (r *adminRepository) IncrementIssuesResolved(ctx context.Context, email string) (bool, error) {
	query := `UPDATE admin_users SET issues_resolved = issues_resolved + 1 WHERE email = $1`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return false, apperrors.Persistence("increment issues resolved", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Persistence("increment issues resolved", err)
	}

	return rowsAffected > 0, nil
}
