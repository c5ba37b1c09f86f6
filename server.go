package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Relay-mode globals, set once by runServer before the router starts.
var (
	serveConfig    *Config
	middlewareAuth bool
	authKey        string

	sessionCacheInstance = &sessionCache{
		data:    make(map[string]cachedSession),
		timeout: DefaultSessionTTL,
	}
)

// runServer starts the wake relay. The router credentials come from the same
// config file the CLI uses; relay behavior (listen address, API key, session
// TTL) is configured through the environment.
func runServer(addr string, cfg *Config) error {
	serveConfig = cfg

	// Load middleware authentication config (for incoming API requests)
	middlewareAuth = getEnv(EnvMiddlewareAuth, "false") == "true"
	authKey = getEnv(EnvAuthKey, "")

	// Refuse to start in an insecure half-configured state
	if middlewareAuth && authKey == "" {
		return fmt.Errorf("MIDDLEWARE_AUTH is enabled but AUTH_KEY is not set. " +
			"Set AUTH_KEY environment variable or disable MIDDLEWARE_AUTH")
	}
	logger.Info("Middleware authentication", zap.Bool("enabled", middlewareAuth))

	// Session TTL override (seconds)
	if ttlStr := getEnv(EnvSessionTTL, ""); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			sessionCacheInstance.timeout = time.Duration(ttl) * time.Second
		}
	}
	logger.Info("Session cache", zap.Duration("ttl", sessionCacheInstance.timeout))
	logger.Info("Relay target", zap.String("router", cfg.routerURL()))

	r := newRelayRouter()

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: DefaultHTTPTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return err
		}
		logger.Info("Server exited properly")
		return nil
	}
}

// newRelayRouter wires the chi router and middleware stack. Split out of
// runServer so handler tests can mount the real routes.
func newRelayRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))
	r.Use(securityHeadersMiddleware)

	// Health check stays outside authentication so monitoring needs no key
	r.Get("/health", healthCheckHandler)

	r.Route("/api/v1/fritz", func(r chi.Router) {
		if middlewareAuth {
			r.Use(apiKeyAuthMiddleware)
		}
		r.Get("/devices", listDevicesHandler)
		r.Post("/wake/{device}", wakeDeviceHandler)
		r.Post("/session/clear", clearSessionsHandler)
	})
	return r
}
