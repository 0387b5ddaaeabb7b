package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/lmoralesc/pausia"
	fiberadapter "github.com/lmoralesc/pausia/adapters/fiber"
	pgxadapter "github.com/lmoralesc/pausia/adapters/pgx"
	"github.com/lmoralesc/pausia/core"
	"github.com/lmoralesc/pausia/pkg/cache"
	"github.com/lmoralesc/pausia/pkg/config"
	"github.com/lmoralesc/pausia/services"
)

func main() {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting pausia",
		"port", cfg.Port,
		"slow_threshold", cfg.SlowThreshold,
	)

	// Database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	storage := pgxadapter.New(pool)

	// Auth backend: argon2id credentials, hashed opaque tokens, cached
	// session lookups.
	auth := services.NewCredentialAuth(services.CredentialAuthConfig{
		Storage: storage,
		Cache:   cache.NewMemory(5*time.Minute, 500),
		MaxAge:  cfg.SessionMaxAge,
		Logger:  logger,
	})

	// Lifecycle controller
	ctrl, err := pausia.New(pausia.Config{
		Auth:          auth,
		Profiles:      storage,
		Resolver:      storage,
		Cache:         cache.NewFileSnapshot(cfg.SnapshotPath),
		Logger:        logger,
		SlowThreshold: cfg.SlowThreshold,
	})
	if err != nil {
		logger.Error("failed to build controller", "error", err)
		os.Exit(1)
	}
	defer ctrl.Close()

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	adapter := fiberadapter.New(app, ctrl)
	if err := adapter.RegisterRoutes("/auth"); err != nil {
		logger.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	// Role-gated areas
	guard := adapter.Guard()
	app.Get(string(core.RouteAdmin), fiberadapter.RequireRoles(guard, core.RoleAdmin), handleArea("admin"))
	app.Get(string(core.RouteManager), fiberadapter.RequireRoles(guard, core.RoleManager), handleArea("manager"))
	app.Get(string(core.RouteAgent), fiberadapter.RequireRoles(guard, core.RoleAgent), handleArea("agent"))

	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	// Initialize auth state before serving traffic.
	ctrl.Bootstrap(context.Background())

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func handleArea(name string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"area": name})
	}
}
