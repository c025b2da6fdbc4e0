package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/vetscout/internal/api"
	"github.com/UnknownOlympus/vetscout/internal/config"
	"github.com/UnknownOlympus/vetscout/internal/fallback"
	"github.com/UnknownOlympus/vetscout/internal/finder"
	"github.com/UnknownOlympus/vetscout/internal/location"
	"github.com/UnknownOlympus/vetscout/internal/metrics"
	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/repository"
	"github.com/UnknownOlympus/vetscout/internal/search"
	"github.com/UnknownOlympus/vetscout/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env, os.Stdout)
	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	var checks healthChecks

	// The database is only needed by the postgres fallback.
	providerConfig := fallback.ProviderConfig{
		Source:        fallback.SourceType(cfg.Fallback.Source),
		WorkbookPath:  cfg.Fallback.WorkbookPath,
		WorkbookSheet: cfg.Fallback.WorkbookSheet,
		ESAddresses:   cfg.Fallback.ESAddresses,
		ESIndex:       cfg.Fallback.ESIndex,
		PlacesAPIKey:  cfg.Fallback.PlacesAPIKey,
		OverpassURL:   cfg.Fallback.OverpassURL,
		Logger:        logger,
	}
	if providerConfig.Source == fallback.SourcePostgres {
		dtb, err := repository.NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer dtb.Close()
		providerConfig.Database = dtb
		checks = append(checks, dtb)
	}

	fallbackProvider, err := fallback.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create fallback provider: %v", err)
	}
	logger.InfoContext(ctx, "Fallback provider initialized", "source", cfg.Fallback.Source)

	locator, err := location.NewLocator(location.LocatorConfig{
		Type:     location.LocatorType(cfg.Locator.Type),
		APIKey:   cfg.Locator.APIKey,
		Position: &models.Coordinates{Latitude: cfg.Locator.Latitude, Longitude: cfg.Locator.Longitude},
		Cache:    cfg.Locator.Cache,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create locator: %v", err)
	}
	logger.InfoContext(ctx, "Locator initialized", "type", cfg.Locator.Type)

	store, err := newSessionStore(cfg.Session)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	if pinger, ok := store.(api.Pinger); ok {
		checks = append(checks, pinger)
	}

	sessions := session.NewManager(store, logger, appMetrics)

	searcher := search.NewClient(
		cfg.Search.BaseURL,
		logger,
		search.WithTimeout(cfg.Search.Timeout),
		search.WithRateLimit(cfg.Search.RateLimit),
	)
	nearby := finder.NewFinder(
		location.NewResolver(locator, logger, appMetrics),
		searcher,
		fallbackProvider,
		logger,
		appMetrics,
	)

	handler := api.NewHandler(nearby, sessions, checks, logger)
	router, err := api.NewRouter(handler, sessions, reg, logger, cfg.Proxies)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	readTimeout := 5
	writeTimeout := 30
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", err)
			stop()
		}
	}()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Failed to stop HTTP server", "error", err)
	}

	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// newSessionStore builds the configured session backend.
func newSessionStore(cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return session.NewRedisStore(client, cfg.RedisPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Backend)
	}
}

// healthChecks pings every dependency in turn.
type healthChecks []api.Pinger

func (h healthChecks) Ping(ctx context.Context) error {
	for _, check := range h {
		if err := check.Ping(ctx); err != nil {
			return err
		}
	}

	return nil
}

// setupLogger initializes and returns a logger based on the environment provided.
// Unknown environments get error-only JSON output.
func setupLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelError
	text, withSource, withTime, known := false, false, false, true

	switch env {
	case envLocal:
		level, text, withSource, withTime = slog.LevelDebug, true, true, true
	case envDev:
		level, withTime = slog.LevelInfo, true
	case envProd:
		level = slog.LevelWarn
	default:
		known = false
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: withSource}
	if !withTime {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
	}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if text {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)

	if !known {
		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("env", env),
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
