package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"careerhub/config"
	"careerhub/handlers"
	"careerhub/identity"
	"careerhub/middleware"
	"careerhub/models"
	"careerhub/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()
	if cfg.SessionSecret == "" {
		slog.Error("SESSION_SECRET is required")
		os.Exit(1)
	}

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(ctx)

	// Initialize services
	services.InitServices(db, cfg.DatabaseName)

	// Wire the identity provider and the session manager
	provider := identity.NewHMACProvider(cfg.SessionSecret, cfg.TokenIssuer, services.NewMongoClaimStore())
	services.InitSessions(provider, services.NewMongoProfileStore())

	// Approval decision emails (no-op without an API key)
	services.InitNotifier(cfg.ResendAPIKey, cfg.NotifyFromEmail)

	handlers.SetSecureCookies(cfg.IsProduction())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	registerRoutes(app)

	// Start server
	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func registerRoutes(app *fiber.App) {
	// Session lifecycle and local credential flow
	auth := app.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/token", handlers.Token)
	auth.Post("/session", handlers.EstablishSession)
	auth.Delete("/session", handlers.TerminateSession)
	auth.Get("/me", handlers.GetCurrentUser)

	api := app.Group("/api")

	// Job board: browsing is public, posting is for employers
	api.Get("/jobs", handlers.ListJobs)
	api.Get("/jobs/:jobID", handlers.GetJob)
	api.Post("/jobs", middleware.RequireRole(models.RoleEmployer, models.RoleAdmin), handlers.CreateJob)
	api.Put("/jobs/:jobID", middleware.RequireRole(models.RoleEmployer, models.RoleAdmin), handlers.UpdateJob)
	api.Delete("/jobs/:jobID", middleware.RequireRole(models.RoleEmployer, models.RoleAdmin), handlers.DeleteJob)

	// Career events: published by approved mentors and admins
	api.Get("/events", handlers.ListEvents)
	api.Get("/events/:eventID", handlers.GetEvent)
	api.Post("/events", middleware.RequireApprovedMentor, handlers.CreateEvent)
	api.Put("/events/:eventID", middleware.RequireApprovedMentor, handlers.UpdateEvent)
	api.Delete("/events/:eventID", middleware.RequireApprovedMentor, handlers.DeleteEvent)

	// Career tips: published by approved mentors and admins
	api.Get("/tips", handlers.ListTips)
	api.Get("/tips/:tipID", handlers.GetTip)
	api.Post("/tips", middleware.RequireApprovedMentor, handlers.CreateTip)
	api.Put("/tips/:tipID", middleware.RequireApprovedMentor, handlers.UpdateTip)
	api.Delete("/tips/:tipID", middleware.RequireApprovedMentor, handlers.DeleteTip)

	// Own profile
	api.Get("/profile", middleware.RequireAuth, handlers.GetProfile)
	api.Put("/profile", middleware.RequireAuth, handlers.UpdateProfile)

	// Mentor approvals: admin only
	api.Get("/approvals", middleware.RequireRole(models.RoleAdmin), handlers.ListPendingMentors)
	api.Put("/approvals/:uid", middleware.RequireRole(models.RoleAdmin), handlers.DecideMentor)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "careerhub",
		})
	})
}
