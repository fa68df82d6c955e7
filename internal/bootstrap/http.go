package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitnova/fitnova-ui-api/config"
	httpx "github.com/fitnova/fitnova-ui-api/internal/http"
	"github.com/fitnova/fitnova-ui-api/internal/ports"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	SSO      ports.SSOProvider
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil || cfg.Services == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	var metrics *httpx.Metrics
	if appCfg.HTTP.MetricsEnabled {
		metrics = httpx.NewMetrics()
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Core:             cfg.Services.Sessions,
		WebSessions:      cfg.Services.WebSessions,
		Registration:     cfg.Services.Registration,
		Accounts:         cfg.Services.Members,
		Memberships:      cfg.Services.Membership,
		Workouts:         cfg.Services.Workout,
		Reservations:     cfg.Services.Reservation,
		Profiles:         cfg.Services.Users,
		SSO:              cfg.SSO,
		CookieDomain:     appCfg.HTTP.CookieDomain,
		Metrics:          metrics,
		Compression:      appCfg.HTTP.CompressionEnabled,
		CompressionLevel: appCfg.HTTP.CompressionLevel,
		Logger:           logger,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}

	return nil
}
