package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"cofix/internal/config"
)

type DB struct {
	*sqlx.DB
	logger *slog.Logger
}

func ConnectDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "host", cfg.DB.Host, "dbname", cfg.DB.Name)

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{DB: db, logger: logger}

	if err := dbStruct.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		logger.Warn("migrations were not applied", "error", err)
	}

	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check: %w", err)
	}

	logger.Info("connected to postgres")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations executes the whole file as one statement batch. The schema
// uses IF NOT EXISTS everywhere so repeated runs are harmless.
func (db *DB) RunMigrations(ctx context.Context, migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("migration file not found: %s", migrationFilePath)
		}
		return fmt.Errorf("read migration file: %w", err)
	}

	db.logger.Info("applying migrations", "file", migrationFilePath)

	if _, err := db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return errors.New("database connection is not initialized")
	}

	return db.PingContext(ctx)
}
