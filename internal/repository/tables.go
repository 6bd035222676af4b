package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ExpectedTables are the tables created by the bundled migration.
var ExpectedTables = []string{"users", "admin_users", "posts", "post_images", "reviews"}

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// MissingTables returns the names from expected that are absent from the
// public schema, keeping the order of expected.
func (r *tablesRepository) MissingTables(ctx context.Context, expected []string) ([]string, error) {
	var present []string

	err := r.db.SelectContext(ctx, &present, `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
		`)
	if err != nil {
		return nil, fmt.Errorf("list database tables: %w", err)
	}

	seen := make(map[string]struct{}, len(present))
	for _, name := range present {
		seen[name] = struct{}{}
	}

	missing := []string{}
	for _, name := range expected {
		if _, ok := seen[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
