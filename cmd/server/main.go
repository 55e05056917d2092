package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/umirime/backend/internal/ai"
	"github.com/umirime/backend/internal/catalog"
	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/database"
	"github.com/umirime/backend/internal/handlers"
	"github.com/umirime/backend/internal/identity"
	"github.com/umirime/backend/internal/logging"
	"github.com/umirime/backend/internal/mailer"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/payment"
	"github.com/umirime/backend/internal/routes"
	"github.com/umirime/backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.MagicLinkSecret == "" {
		slog.Error("MAGIC_LINK_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Collaborators
	cat := catalog.Default()
	provider := identity.NewHTTPProvider(cfg.IdentityURL, cfg.IdentityTimeout)
	gateway := payment.NewStripeGateway(cfg.StripeAPIURL, cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.PaymentTimeout)
	aiClient := ai.NewChatClient(cfg.AIAPIURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)

	var mail mailer.Mailer
	if cfg.MailerAPIKey != "" {
		mail = mailer.NewHTTPMailer(cfg.MailerAPIURL, cfg.MailerAPIKey, cfg.MailFrom, cfg.MailerTimeout)
	} else {
		slog.Warn("MAILER_API_KEY not set, emails disabled")
		mail = mailer.NoopMailer{}
	}

	// Services
	subscriptionService := services.NewSubscriptionService(database.DB, gateway, cat)
	authService := services.NewAuthService(database.DB, cfg, provider, mail, subscriptionService)
	moodService := services.NewMoodService(database.DB, cat)
	tipService := services.NewTipService(moodService, aiClient)
	settingsService := services.NewSettingsService(database.DB)
	adminService := services.NewAdminService(database.DB, mail)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, subscriptionService, cfg)
	healthHandler := handlers.NewHealthHandler(database.DB)
	catalogHandler := handlers.NewCatalogHandler(cat)
	moodHandler := handlers.NewMoodHandler(moodService, subscriptionService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService, cat, cfg.FrontendURL)
	webhookHandler := handlers.NewWebhookHandler(subscriptionService)
	tipHandler := handlers.NewTipHandler(tipService, subscriptionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	adminHandler := handlers.NewAdminHandler(adminService, subscriptionService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService,
		authHandler, healthHandler, catalogHandler, moodHandler,
		subscriptionHandler, webhookHandler, tipHandler, settingsHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
