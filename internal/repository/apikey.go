package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// APIKeyPrefix marks keys issued by this service
const APIKeyPrefix = "opgl_"

const apiKeyLength = 40

// APIKey is a client credential allowed to call the profile endpoints
type APIKey struct {
	ID                uuid.UUID
	KeyHash           string
	Name              string
	RateLimit         int
	RateWindowSeconds int
	IsActive          bool
	CreatedAt         time.Time
	LastUsedAt        sql.NullTime
}

// APIKeyRepository defines the interface for API key and request counter storage
type APIKeyRepository interface {
	GetByKeyHash(ctx context.Context, keyHash string) (*APIKey, error)
	Create(ctx context.Context, name string, keyHash string, rateLimit int, rateWindowSeconds int) (*APIKey, error)
	List(ctx context.Context) ([]APIKey, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
	IncrementRequestCount(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time) (int, error)
}

// PostgresAPIKeyRepository implements APIKeyRepository using PostgreSQL
type PostgresAPIKeyRepository struct {
	database *sql.DB
}

// NewPostgresAPIKeyRepository creates a new PostgreSQL-backed API key repository
func NewPostgresAPIKeyRepository(database *sql.DB) *PostgresAPIKeyRepository {
	return &PostgresAPIKeyRepository{
		database: database,
	}
}

// GenerateAPIKey returns a new random plain-text key. Only its hash is ever stored.
func GenerateAPIKey() (string, error) {
	id, err := gonanoid.New(apiKeyLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return APIKeyPrefix + id, nil
}

// HashAPIKey hashes an API key using SHA-256
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}

const apiKeyColumns = `id, key_hash, name, rate_limit, rate_window_seconds, is_active, created_at, last_used_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAPIKey(row rowScanner) (*APIKey, error) {
	apiKey := &APIKey{}
	err := row.Scan(
		&apiKey.ID,
		&apiKey.KeyHash,
		&apiKey.Name,
		&apiKey.RateLimit,
		&apiKey.RateWindowSeconds,
		&apiKey.IsActive,
		&apiKey.CreatedAt,
		&apiKey.LastUsedAt,
	)
	if err != nil {
		return nil, err
	}
	return apiKey, nil
}

// GetByKeyHash returns the active key with this hash, or nil when there is none
func (repository *PostgresAPIKeyRepository) GetByKeyHash(ctx context.Context, keyHash string) (*APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = $1 AND is_active = true`

	apiKey, err := scanAPIKey(repository.database.QueryRowContext(ctx, query, keyHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up api key: %w", err)
	}

	return apiKey, nil
}

// Create stores a new API key record
func (repository *PostgresAPIKeyRepository) Create(ctx context.Context, name string, keyHash string, rateLimit int, rateWindowSeconds int) (*APIKey, error) {
	query := `
		INSERT INTO api_keys (key_hash, name, rate_limit, rate_window_seconds)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + apiKeyColumns

	apiKey, err := scanAPIKey(repository.database.QueryRowContext(ctx, query, keyHash, name, rateLimit, rateWindowSeconds))
	if err != nil {
		return nil, fmt.Errorf("failed to create api key: %w", err)
	}

	return apiKey, nil
}

// List returns every API key, newest first
func (repository *PostgresAPIKeyRepository) List(ctx context.Context) ([]APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC`

	rows, err := repository.database.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	apiKeys := []APIKey{}
	for rows.Next() {
		apiKey, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		apiKeys = append(apiKeys, *apiKey)
	}

	return apiKeys, rows.Err()
}

// Delete soft-deletes an API key by setting is_active to false
func (repository *PostgresAPIKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.database.ExecContext(ctx, `UPDATE api_keys SET is_active = false WHERE id = $1`, id)
	return err
}

// UpdateLastUsed updates the last_used_at timestamp for an API key
func (repository *PostgresAPIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := repository.database.ExecContext(ctx, `UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

// IncrementRequestCount atomically bumps the counter of a window and returns the new count
func (repository *PostgresAPIKeyRepository) IncrementRequestCount(ctx context.Context, apiKeyID uuid.UUID, windowStart time.Time) (int, error) {
	query := `
		INSERT INTO rate_limit_records (api_key_id, window_start, request_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (api_key_id, window_start)
		DO UPDATE SET request_count = rate_limit_records.request_count + 1
		RETURNING request_count
	`

	var requestCount int
	if err := repository.database.QueryRowContext(ctx, query, apiKeyID, windowStart).Scan(&requestCount); err != nil {
		return 0, fmt.Errorf("failed to increment request count: %w", err)
	}

	return requestCount, nil
}
