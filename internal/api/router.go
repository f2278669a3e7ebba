package api

import (
	"net/http"

	"github.com/OPGLOL/opgl-profile-service/internal/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// RouterConfig holds all dependencies for router setup.
// Nil optional fields disable the routes or middleware they back.
type RouterConfig struct {
	Handler        *Handler
	SearchSocket   *SearchSocket
	AdminHandler   *AdminHandler
	AuthHandler    *AuthHandler
	RateLimiter    middleware.RateLimitChecker
	TokenValidator middleware.TokenValidator
}

// SetupRouter configures all routes of the profile service
func SetupRouter(config *RouterConfig) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", config.Handler.HealthCheck).Methods(http.MethodPost)

	// Admin routes are registered before the /api/v1 prefix so they never inherit its rate limit
	if config.AuthHandler != nil {
		router.HandleFunc("/api/v1/admin/login", config.AuthHandler.Login).Methods(http.MethodPost)
	}

	if config.AdminHandler != nil && config.TokenValidator != nil {
		adminRouter := router.PathPrefix("/api/v1/admin").Subrouter()
		adminRouter.Use(middleware.AdminAuthMiddleware(config.TokenValidator))
		adminRouter.HandleFunc("/apikeys", config.AdminHandler.CreateAPIKey).Methods(http.MethodPost)
		adminRouter.HandleFunc("/apikeys/list", config.AdminHandler.ListAPIKeys).Methods(http.MethodPost)
		adminRouter.HandleFunc("/apikeys/delete", config.AdminHandler.DeleteAPIKey).Methods(http.MethodPost)
		adminRouter.HandleFunc("/apikeys/{id}", config.AdminHandler.DeleteAPIKey).Methods(http.MethodDelete)
	}

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	if config.RateLimiter != nil {
		apiRouter.Use(middleware.RateLimitMiddleware(config.RateLimiter))
	}

	// Sibling routes on one subrouter reset each other's method mismatch in mux,
	// so methods are enforced per path with handlers.MethodHandler
	apiRouter.Handle("/profile", handlers.MethodHandler{
		http.MethodPost: http.HandlerFunc(config.Handler.GetProfile),
	})
	apiRouter.Handle("/patch", handlers.MethodHandler{
		http.MethodPost: http.HandlerFunc(config.Handler.GetPatch),
	})
	if config.SearchSocket != nil {
		apiRouter.Handle("/search/ws", handlers.MethodHandler{
			http.MethodGet: config.SearchSocket,
		})
	}

	return router
}
