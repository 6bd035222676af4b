package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DB struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"password"`
	Name     string `env:"NAME" envDefault:"cofix"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type MinIO struct {
	Enabled    bool   `env:"ENABLED" envDefault:"false"`
	Endpoint   string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey  string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey  string `env:"SECRET_KEY" envDefault:"minioadmin"`
	BucketName string `env:"BUCKET_NAME" envDefault:"post-images"`
	UseSSL     bool   `env:"USE_SSL" envDefault:"false"`
	Region     string `env:"REGION" envDefault:"us-east-1"`
}

// SMTP is optional; with an empty Host notifications are only logged.
type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@cofix.local"`
}

type Config struct {
	ServerPort          int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout         time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout        time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	DB                  DB            `envPrefix:"DB_"`
	MinIO               MinIO         `envPrefix:"MINIO_"`
	SMTP                SMTP          `envPrefix:"SMTP_"`
	JWTSecretKey        string        `env:"JWT_SECRET_KEY"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION" envDefault:"2h"`
	MaxUploadSize       int64         `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"`
	AllowedOrigins      []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	AdminEmail          string        `env:"ADMIN_EMAIL"`
	SeedDemoData        bool          `env:"SEED_DEMO_DATA" envDefault:"false"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"text"`
	MigrationsPath      string        `env:"MIGRATIONS_PATH" envDefault:"migrations/001_create_tables.sql"`
}

// LoadConfig reads .env (if present) into the environment and parses it.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY is not set")
	}

	return &cfg, nil
}

func (c DB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
