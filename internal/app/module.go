package app

import (
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/api"
	"github.com/OPGLOL/opgl-profile-service/internal/auth"
	"github.com/OPGLOL/opgl-profile-service/internal/config"
	"github.com/OPGLOL/opgl-profile-service/internal/db"
	"github.com/OPGLOL/opgl-profile-service/internal/logger"
	"github.com/OPGLOL/opgl-profile-service/internal/profile"
	"github.com/OPGLOL/opgl-profile-service/internal/ratelimit"
	"github.com/OPGLOL/opgl-profile-service/internal/repository"
	"github.com/OPGLOL/opgl-profile-service/internal/riot"
	"github.com/OPGLOL/opgl-profile-service/internal/search"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module wires every component of the profile service
var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Invoke(applyLogLevel),
	// riot
	fx.Provide(ProvideRiotClient),
	fx.Provide(ProvideStaticData),
	// profile
	fx.Provide(ProvideProfileService),
	// storage (optional)
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideRateLimiter),
	fx.Provide(ProvideAuthService),
	// http
	fx.Provide(ProvideHandler),
	fx.Provide(ProvideSearchSocket),
	fx.Provide(ProvideRouterConfig),
)

func applyLogLevel(cfg *config.Config) {
	logger.SetLevel(cfg.LogLevel)
}

// ProvideRiotClient builds the Riot Web API client
func ProvideRiotClient(cfg *config.Config) riot.ClientInterface {
	return riot.NewClient(cfg.RiotAPIKey, cfg.RiotHostTemplate, cfg.RiotRequestTimeout, uint64(max(cfg.RiotMaxRetries, 0)))
}

// ProvideStaticData builds the Data Dragon client
func ProvideStaticData(cfg *config.Config) riot.StaticDataInterface {
	return riot.NewStaticClient(cfg.DataDragonURL, cfg.RiotRequestTimeout)
}

// ProvideProfileService builds the profile pipeline
func ProvideProfileService(client riot.ClientInterface, staticData riot.StaticDataInterface, cfg *config.Config, log zerolog.Logger) *profile.Service {
	return profile.NewService(client, staticData, profile.Config{
		DefaultTagLine:        cfg.DefaultTagLine,
		DefaultPlatform:       cfg.DefaultPlatform,
		MatchCount:            cfg.MatchCount,
		MatchFetchConcurrency: cfg.MatchFetchConcurrency,
	}, log)
}

// ProvideDatabase connects to PostgreSQL when configured. A nil Database disables API keys.
func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (*db.Database, error) {
	if !cfg.DatabaseEnabled() {
		log.Warn().Msg("Database not configured - running without API keys and rate limiting")
		return nil, nil
	}

	database, err := db.NewPostgresConnection(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(database.Close))
	return database, nil
}

// ProvideRateLimiter enables per-key rate limiting when a database is available
func ProvideRateLimiter(database *db.Database, log zerolog.Logger) *ratelimit.RateLimiter {
	if database == nil {
		return nil
	}
	log.Info().Msg("Rate limiting enabled")
	return ratelimit.NewRateLimiter(repository.NewPostgresAPIKeyRepository(database.DB))
}

// ProvideAuthService enables admin login when a JWT secret and password hash are configured
func ProvideAuthService(cfg *config.Config, log zerolog.Logger) *auth.AuthService {
	if !cfg.AdminEnabled() {
		log.Warn().Msg("Admin credentials not configured - admin endpoints disabled")
		return nil
	}
	return auth.NewAuthService(cfg.JWTSecret, cfg.AdminPasswordHash, cfg.AdminTokenTTL)
}

// ProvideHandler builds the public HTTP handlers
func ProvideHandler(profileService *profile.Service, staticData riot.StaticDataInterface, cfg *config.Config) *api.Handler {
	return api.NewHandler(profileService, staticData, cfg.PatchNotesLocale, searchTimeout(cfg.SearchTimeout))
}

func searchTimeout(configured time.Duration) time.Duration {
	if configured <= 0 {
		return search.DefaultTimeout
	}
	return configured
}

// ProvideSearchSocket builds the WebSocket search endpoint
func ProvideSearchSocket(handler *api.Handler, cfg *config.Config) *api.SearchSocket {
	return api.NewSearchSocket(handler, cfg.CORSAllowedOrigins)
}

// ProvideRouterConfig assembles the router dependencies, leaving optional
// fields nil so the router skips what is not configured
func ProvideRouterConfig(
	handler *api.Handler,
	searchSocket *api.SearchSocket,
	database *db.Database,
	rateLimiter *ratelimit.RateLimiter,
	authService *auth.AuthService,
) *api.RouterConfig {
	routerConfig := &api.RouterConfig{
		Handler:      handler,
		SearchSocket: searchSocket,
	}

	if rateLimiter != nil {
		routerConfig.RateLimiter = rateLimiter
	}

	if authService != nil {
		routerConfig.AuthHandler = api.NewAuthHandler(authService)
		if database != nil {
			routerConfig.TokenValidator = authService
			routerConfig.AdminHandler = api.NewAdminHandler(repository.NewPostgresAPIKeyRepository(database.DB))
		}
	}

	return routerConfig
}
