package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/api"
	"github.com/OPGLOL/opgl-profile-service/internal/config"
	"github.com/OPGLOL/opgl-profile-service/internal/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const shutdownTimeout = 10 * time.Second

// recoveryLogger adapts zerolog to the Println logger gorilla/handlers expects
type recoveryLogger struct {
	logger zerolog.Logger
}

func (recovery recoveryLogger) Println(values ...interface{}) {
	recovery.logger.Error().Msg(fmt.Sprint(values...))
}

// NewHTTPHandler wraps the router in the middleware chain:
// request id, CORS, panic recovery, then compression for non-WebSocket traffic
func NewHTTPHandler(routerConfig *api.RouterConfig, cfg *config.Config, logger zerolog.Logger) http.Handler {
	router := api.SetupRouter(routerConfig)

	compressed := handlers.CompressHandler(router)
	var handler http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if websocket.IsWebSocketUpgrade(request) {
			router.ServeHTTP(writer, request)
			return
		}
		compressed.ServeHTTP(writer, request)
	})

	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: logger}),
		handlers.PrintRecoveryStack(true),
	)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	handler = middleware.RequestID(logger)(handler)

	return handler
}

// RunServer registers the HTTP server with the application lifecycle
func RunServer(lc fx.Lifecycle, routerConfig *api.RouterConfig, cfg *config.Config, logger zerolog.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           NewHTTPHandler(routerConfig, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      searchTimeout(cfg.SearchTimeout) + 10*time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			listener, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
			}

			go func() {
				logger.Info().Str("address", server.Addr).Msg("OPGL Profile listening")
				if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("Server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Shutting down server...")
			shutdownContext, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownContext); err != nil {
				logger.Error().Err(err).Msg("Server shutdown error")
				return err
			}
			logger.Info().Msg("Server stopped gracefully")
			return nil
		},
	})
}
