package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the service configuration loaded from the environment
type Config struct {
	Port     string
	LogLevel string

	// Riot API
	RiotAPIKey         string
	RiotHostTemplate   string
	RiotRequestTimeout time.Duration
	RiotMaxRetries     int
	DataDragonURL      string
	PatchNotesLocale   string

	// Profile pipeline
	DefaultTagLine        string
	DefaultPlatform       string
	MatchCount            int
	MatchFetchConcurrency int
	SearchTimeout         time.Duration

	// Database (optional; API keys and rate limiting are disabled without it)
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	// Admin
	JWTSecret         string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	CORSAllowedOrigins []string
}

// DatabaseEnabled reports whether enough database settings were supplied to connect
func (cfg *Config) DatabaseEnabled() bool {
	return cfg.DBHost != "" && cfg.DBPassword != ""
}

// AdminEnabled reports whether admin login can issue tokens
func (cfg *Config) AdminEnabled() bool {
	return cfg.JWTSecret != "" && cfg.AdminPasswordHash != ""
}

// Load reads .env when present, then the environment, applying defaults
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RiotAPIKey:         getEnv("RIOT_API_KEY", ""),
		RiotHostTemplate:   getEnv("RIOT_HOST_TEMPLATE", "https://{region}.api.riotgames.com"),
		RiotRequestTimeout: parseDuration(getEnv("RIOT_REQUEST_TIMEOUT", "10s"), 10*time.Second),
		RiotMaxRetries:     parseInt(getEnv("RIOT_MAX_RETRIES", "1"), 1),
		DataDragonURL:      getEnv("DATA_DRAGON_URL", "https://ddragon.leagueoflegends.com"),
		PatchNotesLocale:   getEnv("PATCH_NOTES_LOCALE", "en-us"),

		DefaultTagLine:        getEnv("DEFAULT_TAG_LINE", "EUW"),
		DefaultPlatform:       getEnv("DEFAULT_PLATFORM", "eun1"),
		MatchCount:            parseInt(getEnv("MATCH_COUNT", "20"), 20),
		MatchFetchConcurrency: parseInt(getEnv("MATCH_FETCH_CONCURRENCY", "5"), 5),
		SearchTimeout:         parseDuration(getEnv("SEARCH_TIMEOUT", "60s"), 60*time.Second),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "opgl"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenTTL:     parseDuration(getEnv("ADMIN_TOKEN_TTL", "1h"), time.Hour),

		CORSAllowedOrigins: parseList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	if cfg.RiotMaxRetries < 0 {
		cfg.RiotMaxRetries = 0
	}

	logger.Info().
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Str("default_tag_line", cfg.DefaultTagLine).
		Str("default_platform", cfg.DefaultPlatform).
		Int("match_count", cfg.MatchCount).
		Int("match_fetch_concurrency", cfg.MatchFetchConcurrency).
		Dur("riot_request_timeout", cfg.RiotRequestTimeout).
		Dur("search_timeout", cfg.SearchTimeout).
		Bool("database_enabled", cfg.DatabaseEnabled()).
		Bool("admin_enabled", cfg.AdminEnabled()).
		Msg("Configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
