// Package searchservice boots the saved-search HTTP service.
package searchservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchrail/searchrail/internal/api"
	"github.com/searchrail/searchrail/internal/auth"
	"github.com/searchrail/searchrail/internal/config"
	"github.com/searchrail/searchrail/internal/factory"
	"github.com/searchrail/searchrail/internal/health"
	"github.com/searchrail/searchrail/internal/logger"
	"github.com/searchrail/searchrail/internal/store"
)

// Run starts the search service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("search-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("dev_mode", cfg.DevMode).
		Msg("Search service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return err
	}

	authz, err := newAuthorizer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Authorizer unavailable")
		return err
	}

	router := api.NewRouter(st, authz)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until the store reports healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// newAuthorizer selects the authorizer implementation. Only the development
// authorizer exists today; production deployments must integrate a real one
// rather than flip DevMode.
func newAuthorizer(cfg *config.Config) (auth.Authorizer, error) {
	if cfg.DevMode {
		return auth.NewMockAuthorizer(), nil
	}
	return nil, fmt.Errorf("no production authorizer configured; set SEARCH_SERVICE_DEV_MODE=true for local development")
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Checkers start unhealthy and need their first probe cycle to flip.
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
