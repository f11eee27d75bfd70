package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetsrp/fleetsrp/internal/config"
	"github.com/fleetsrp/fleetsrp/internal/database"
	"github.com/fleetsrp/fleetsrp/internal/esi"
	"github.com/fleetsrp/fleetsrp/internal/handlers"
	"github.com/fleetsrp/fleetsrp/internal/killboard"
	"github.com/fleetsrp/fleetsrp/internal/middleware"
	"github.com/fleetsrp/fleetsrp/internal/notify"
	"github.com/fleetsrp/fleetsrp/internal/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Fleet SRP service...")

	if cfg.AdminPassword == "" {
		log.Fatalf("ADMIN_PASSWORD is not set")
	}

	passwordHash, err := middleware.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	jwtAuthMiddleware := middleware.NewJWTAuthMiddleware(&middleware.JWTAuthConfig{
		JWTSecret:      cfg.JWTSecret,
		JWTExpiryHours: cfg.JWTExpiryHours,
		SkipPaths: []string{
			"/health",
			"/auth/login",
		},
	})

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize default database records (settings singleton)
	if err := database.InitializeDefaults(); err != nil {
		log.Fatalf("Failed to initialize database defaults: %v", err)
	}

	// Ensure the bootstrap admin account exists
	if err := database.EnsureAdminUser(cfg.AdminUsername, passwordHash); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}
	log.Printf("Admin user ready: %s", cfg.AdminUsername)

	// Outbound clients
	resolver := killboard.NewResolver(cfg.KillboardHosts)
	kbClient := killboard.NewClient(cfg.KillboardBaseURL, cfg.LossValueField, cfg.OutboundTimeout)
	esiClient := esi.NewClient(cfg.ESIBaseURL, cfg.OutboundTimeout)
	log.Printf("Killboard client initialized: %s (value field: %s)", cfg.KillboardBaseURL, cfg.LossValueField)
	log.Printf("ESI client initialized: %s", cfg.ESIBaseURL)

	// Notification backends, in configured order
	var backends []notify.Notifier
	for _, name := range cfg.Notifiers {
		switch name {
		case "discord":
			backends = append(backends, notify.NewDiscordNotifier(cfg.DiscordWebhookURL, cfg.OutboundTimeout))
		case "slack":
			backends = append(backends, notify.NewSlackNotifier(cfg.SlackBotToken))
		}
	}
	dispatcher := notify.NewDispatcher(backends...)
	if dispatcher.Enabled() {
		log.Printf("Notification backends registered: %v", cfg.Notifiers)
	} else {
		log.Printf("Notifications are DISABLED (no backends configured)")
	}

	// Services
	eventService := services.NewEventService(database.GetDB())
	claimService := services.NewClaimService(database.GetDB(), resolver, kbClient, esiClient, dispatcher)

	// Live updates hub for reviewer dashboards
	hub := handlers.NewUpdatesHub()
	claimService.SetUpdateHook(hub.BroadcastClaim)

	// Handlers
	httpHandler := handlers.NewHTTPHandler()
	apiHandler := handlers.NewAPIHandler(claimService, eventService, hub)
	authHandler := handlers.NewAuthHandler(jwtAuthMiddleware)

	// Set up HTTP server routes
	mux := http.NewServeMux()
	httpHandler.SetupRoutes(mux)
	apiHandler.SetupRoutes(mux)
	authHandler.SetupRoutes(mux)

	// Wrap all routes: request id, CORS, then JWT authentication
	corsMiddleware := middleware.NewCORSMiddleware() // Allow all origins
	handler := middleware.RequestIDMiddleware(corsMiddleware.Wrap(jwtAuthMiddleware.Wrap(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")

	if err := httpServer.Close(); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Shutdown complete")
}
