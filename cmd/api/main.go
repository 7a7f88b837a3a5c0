// Package main is the entrypoint for the cash card API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/cashcard/cashcard/internal/cache"
	"github.com/cashcard/cashcard/internal/config"
	"github.com/cashcard/cashcard/internal/handler"
	"github.com/cashcard/cashcard/internal/metrics"
	"github.com/cashcard/cashcard/internal/middleware"
	"github.com/cashcard/cashcard/internal/repository"
	"github.com/cashcard/cashcard/internal/router"
	"github.com/cashcard/cashcard/internal/server"
	"github.com/cashcard/cashcard/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	metricsRecorder := metrics.NewInMemory()

	// Initialize record store
	var (
		store     service.Store
		storeName string
		closers   []namedCloser
	)
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		store = repository.NewMemoryStore()
		storeName = "memory"
		logger.Info("using in-memory store")
	default:
		repo, err := repository.New(ctx, repository.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
		})
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return errors.New("database unavailable")
		}
		closers = append(closers, namedCloser{"postgres", func() error { repo.Close(); return nil }})
		logger.Info("connected to database")

		if cfg.MigrateOnStart {
			if err := repo.Migrate(ctx); err != nil {
				repo.Close()
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			logger.Info("database migrations applied")
		}
		store = repo
		storeName = "postgres"
	}

	// Initialize cache
	var (
		cardCache  service.Cache = cache.Noop{}
		limiter    middleware.IPRateLimiter
		cacheCheck = handler.Check{Name: "redis"}
	)
	if cfg.CacheEnabled() {
		cacheClient, err := cache.New(ctx, cfg.RedisURL,
			cache.WithCashCardTTL(cfg.CacheTTL),
			cache.WithNegativeTTL(cfg.NegativeCacheTTL),
		)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			for _, c := range closers {
				_ = c.close()
			}
			return errors.New("redis unavailable")
		}
		closers = append(closers, namedCloser{"redis", cacheClient.Close})
		logger.Info("connected to Redis")

		cardCache = cacheClient
		limiter = cacheClient
		cacheCheck.Checker = cacheClient
	} else {
		logger.Info("REDIS_URL not set, caching and rate limiting disabled")
	}

	// Initialize services
	cashCardService := service.NewCashCardService(store, cardCache, metricsRecorder, logger)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(
		handler.Check{Name: storeName, Checker: store},
		cacheCheck,
	)

	r := router.New(router.Deps{
		Logger:   logger,
		Root:     handler.New(),
		Health:   healthHandler,
		Metrics:  handler.NewMetricsHandler(metricsRecorder),
		CashCard: handler.NewCashCardHandler(cashCardService, logger, cfg.MaxPageSize),
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS: corsConfig(cfg),
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Enabled: cfg.RateLimitEnabled,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		},
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	for _, c := range closers {
		fn := c.close
		srv.OnShutdown(c.name, func(context.Context) error { return fn() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"store", storeName,
		"env", cfg.AppEnv,
	)

	return srv.Run()
}

// namedCloser releases a dependency on shutdown.
type namedCloser struct {
	name  string
	close func() error
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
