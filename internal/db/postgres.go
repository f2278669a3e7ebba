package db

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	// PostgreSQL driver import for database/sql
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Database wraps the sql.DB connection used for API keys and rate limit counters
type Database struct {
	*sql.DB
}

// ConnectionString builds a lib/pq connection string
func ConnectionString(host string, port string, user string, password string, dbname string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)
}

// NewPostgresConnection opens the database, verifies it and applies pending migrations
func NewPostgresConnection(host string, port string, user string, password string, dbname string, logger zerolog.Logger) (*Database, error) {
	sqlDB, err := sql.Open("postgres", ConnectionString(host, port, user, password, dbname))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(sqlDB, logger); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info().
		Str("host", host).
		Str("port", port).
		Str("database", dbname).
		Msg("Database connection established")

	return &Database{DB: sqlDB}, nil
}

func runMigrations(sqlDB *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("Migrations completed successfully")
	return nil
}

// Close closes the database connection
func (database *Database) Close() error {
	if database != nil && database.DB != nil {
		return database.DB.Close()
	}
	return nil
}
