package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/tajious/visitdesk/internal/api/handlers"
	"github.com/tajious/visitdesk/internal/api/router"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/config"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/session"
	"github.com/tajious/visitdesk/internal/views"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Identity cache and rate limit counters live in redis when enabled
	var (
		identities session.IdentityCache      = session.NewMemoryCache()
		counters   middleware.RateLimitStore = middleware.NewMemoryStore()
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to redis at %s: %v", cfg.Redis.Addr(), err)
		}
		defer rdb.Close()
		identities = session.NewRedisCache(rdb)
		counters = middleware.NewRedisStore(rdb)
	}

	api := apiclient.New(cfg.API.BaseURL, apiclient.WithTimeout(cfg.API.Timeout))
	gate := session.NewGate(api, identities, cfg.Session.CacheTTL)
	registry := views.NewRegistry(cfg.Session.ViewIdle)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "visitdesk",
		BodyLimit: 25 << 20,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowCredentials: true,
	}))
	app.Use(logger.New())

	authMiddleware := middleware.NewAuthMiddleware(gate, api, registry, cfg.Server.CookieSecure)
	rateLimiter := middleware.NewRateLimiter(counters, middleware.RateLimitConfig{
		Enabled: cfg.Server.RateLimit.Enabled,
		Limit:   cfg.Server.RateLimit.Limit,
		Window:  cfg.Server.RateLimit.Window,
	})

	// Initialize router
	apiRouter := router.NewRouter(app, router.Handlers{
		Auth:          handlers.NewAuthHandler(authMiddleware, api, gate),
		Dashboard:     handlers.NewDashboardHandler(authMiddleware),
		Visits:        handlers.NewVisitHandler(authMiddleware),
		Catalogue:     handlers.NewCatalogueHandler(authMiddleware),
		Users:         handlers.NewUserHandler(authMiddleware),
		Groups:        handlers.NewGroupHandler(authMiddleware),
		Notifications: handlers.NewNotificationHandler(authMiddleware, api, cfg.Notifications.PollInterval),
		Reports:       handlers.NewReportHandler(authMiddleware),
		Exports:       handlers.NewExportHandler(authMiddleware),
	}, authMiddleware, rateLimiter)

	// Setup routes
	apiRouter.SetupRoutes()

	log.Printf("visitdesk starting on port %s (%s), API at %s", cfg.Server.Port, cfg.Server.Environment, cfg.API.BaseURL)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
