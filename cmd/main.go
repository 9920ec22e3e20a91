package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/sapvaishnav/chatbot-admin/internal/handler"
	"github.com/sapvaishnav/chatbot-admin/internal/middleware"
	"github.com/sapvaishnav/chatbot-admin/pkg/config"
	"github.com/sapvaishnav/chatbot-admin/pkg/database"
	"github.com/sapvaishnav/chatbot-admin/pkg/jwtutil"
	"github.com/sapvaishnav/chatbot-admin/pkg/logger"
	"github.com/sapvaishnav/chatbot-admin/pkg/storage"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting chatbot admin portal...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Point upload handlers at the configured storage root
	handler.SetUploadStore(&storage.Store{Root: cfg.Storage.UploadDir})

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)

	// API routes - all require a session principal with tenant context
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/dashboard", handler.Dashboard)

	// Organization profile
	api.GET("/orgprofile", handler.GetOrgProfile)
	api.PUT("/orgprofile", handler.UpdateOrgProfile)

	// Bot configuration
	api.GET("/bot-config", handler.GetBotConfig)
	api.POST("/bot-config", handler.SaveBotConfig)

	// Leads
	api.GET("/leads", handler.ListLeads)
	api.POST("/leads", handler.CreateLead)

	// Data augmentation sources
	augmentation := api.Group("/data-augmentation")
	augmentation.GET("", handler.GetDataAugmentation)
	augmentation.POST("/documents", handler.UploadDocument)
	augmentation.DELETE("/documents/:id", handler.RemoveDocument)
	augmentation.POST("/urls", handler.AddURL)
	augmentation.DELETE("/urls/:id", handler.RemoveURL)
	augmentation.PUT("/database-connection", handler.SaveDatabaseConnection)
	augmentation.DELETE("/database-connection", handler.RemoveDatabaseConnection)

	// Training configuration
	api.GET("/training", handler.GetTraining)
	api.POST("/training", handler.SaveTraining)
	api.POST("/training/start", handler.StartTraining)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
