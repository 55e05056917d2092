package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/umirime/backend/internal/config"
	"github.com/umirime/backend/internal/handlers"
	"github.com/umirime/backend/internal/middleware"
	"github.com/umirime/backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	catalogHandler *handlers.CatalogHandler,
	moodHandler *handlers.MoodHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	webhookHandler *handlers.WebhookHandler,
	tipHandler *handlers.TipHandler,
	settingsHandler *handlers.SettingsHandler,
	adminHandler *handlers.AdminHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Public
	api.Get("/", catalogHandler.Root)
	api.Get("/health", healthHandler.Check)
	api.Get("/mood-types", catalogHandler.MoodTypes)
	api.Get("/premium/plans", catalogHandler.Plans)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/session", authHandler.CreateSession)
	auth.Post("/magic-link", authHandler.RequestMagicLink)
	auth.Post("/magic-link/verify", authHandler.VerifyMagicLink)

	// Webhooks — provider-signed, no session
	api.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// Protected routes — session middleware applied per route so it never
	// shadows the public surface.
	session := middleware.SessionProtected(authService)

	api.Get("/auth/me", session, authHandler.Me)
	api.Post("/auth/logout", session, authHandler.Logout)

	api.Post("/moods", session, moodHandler.Create)
	api.Get("/moods", session, moodHandler.List)
	api.Get("/moods/calendar/:year/:month", session, moodHandler.Calendar)
	api.Get("/moods/stats", session, moodHandler.Stats)
	api.Get("/moods/export", session, moodHandler.Export)

	api.Get("/gamification/stats", session, moodHandler.Gamification)

	api.Post("/ai/tips", session, tipHandler.DailyTip)
	api.Post("/ai/weekly-report", session, tipHandler.WeeklyReport)

	api.Get("/subscription/status", session, subscriptionHandler.Status)
	api.Post("/subscription/checkout", session, subscriptionHandler.CreateCheckout)
	api.Get("/subscription/checkout/status/:session_id", session, subscriptionHandler.CheckoutStatus)

	api.Get("/settings/notifications", session, settingsHandler.Get)
	api.Post("/settings/notifications", session, settingsHandler.Update)

	// Admin panel — session plus the admin gate; the token header bypasses
	// the session requirement for scripted use.
	admin := api.Group("/admin",
		middleware.AdminTokenBypass(cfg, session),
		middleware.AdminRequired(cfg),
	)
	admin.Get("/check", adminHandler.Check)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/users", adminHandler.Users)
	admin.Post("/grant-premium", adminHandler.GrantPremium)
	admin.Post("/revoke-premium", adminHandler.RevokePremium)
	admin.Post("/send-reminders", adminHandler.SendReminders)
	admin.Post("/send-trial-warnings", adminHandler.SendTrialWarnings)
	admin.Post("/test-email", adminHandler.TestEmail)
}
