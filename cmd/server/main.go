package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/logging"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/ratelimit"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/routes"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup(0)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	stdout := logging.Setup(cfg.LogLevel)

	// Persistence
	var (
		dataStore    services.Store
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
		closeDB      = func() {}
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		dataStore = store.NewMemoryStore()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err.Error())
			os.Exit(1)
		}
		if err := database.Migrate(context.Background(), db); err != nil {
			slog.Error("migration failed", "error", err.Error())
			os.Exit(1)
		}
		dataStore = store.NewGormStore(db, cfg.Database.Timeout)

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(db, 5*time.Second)
		slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))
		logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

		closeDB = func() {
			if err := database.Close(db); err != nil {
				slog.Error("database close error", "error", err.Error())
			}
		}
	}

	// Auth core
	vault, err := auth.NewPasswordVault(cfg.Auth.BcryptCost)
	if err != nil {
		slog.Error("password vault init failed", "error", err.Error())
		os.Exit(1)
	}
	codec, err := auth.NewTokenCodec(auth.SecretsFromConfig(cfg), cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("token codec init failed", "error", err.Error())
		os.Exit(1)
	}

	var resolver services.IdentityResolver = services.NewStatelessResolver(dataStore, codec)
	if cfg.Stateful() {
		resolver = services.NewStatefulResolver(dataStore, dataStore, codec)
	}
	slog.Info("auth configured", "strategy", cfg.Auth.Strategy, "token_ttl", cfg.Auth.TokenTTL.String())

	// Services
	accountService := services.NewAccountService(dataStore, dataStore, vault, codec, cfg.Stateful())
	todoService := services.NewTodoService(dataStore)

	// Handlers
	userHandler := handlers.NewUserHandler(accountService)
	todoHandler := handlers.NewTodoHandler(todoService)
	healthHandler := handlers.NewHealthHandler(dataStore, cfg.Auth.Strategy)

	// Rate limiter storage
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := ratelimit.NewRedisStorage(cfg.RedisURL, cfg.Database.Timeout)
		if err != nil {
			slog.Error("redis connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer redisStorage.Close()
		limiterStorage = redisStorage
	}

	// Sentry error tracking
	var first []fiber.Handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err.Error())
		} else {
			defer sentry.Flush(2 * time.Second)
			first = append(first, sentryfiber.New(sentryfiber.Options{
				Repanic:         true,
				WaitForDelivery: false,
			}))
		}
	}

	// Fiber app
	app := routes.NewApp(cfg, first...)
	routes.Setup(app, cfg, limiterStorage,
		middleware.RequireAuth(cfg, resolver, codec),
		userHandler, todoHandler, healthHandler,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err.Error())
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	closeDB()

	slog.Info("server stopped")
}
