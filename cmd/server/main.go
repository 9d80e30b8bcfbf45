package main

import (
	"log"
	"os"
	"time"

	"costengine/internal/api"
	"costengine/internal/config"
	"costengine/internal/database"
	"costengine/internal/handlers"
	"costengine/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func init() {
	location, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		log.Printf("Warning: Failed to set Asia/Jakarta timezone: %v", err)
		log.Printf("Server will use system timezone")
	} else {
		time.Local = location
		log.Printf("Server timezone set to: %s (UTC%s)", location, time.Now().In(location).Format("-07:00"))
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Successfully connected to database")

	costingCache := connectRedis()
	if costingCache != nil {
		defer costingCache.Close()
	}

	if err := middleware.InitializeSentry(); err != nil {
		log.Printf("Warning: Sentry initialization failed: %v", err)
	}

	logLevel := getEnv("LOG_LEVEL", "INFO")
	middleware.SetLogLevel(logLevel)
	log.Printf("Log level set to: %s", logLevel)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.SentryErrorReporting())
	router.Use(middleware.SecurityHeaders())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	authMiddleware := middleware.AuthMiddleware()

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.GetSystemHealth)

	uploadsDir := getEnv("UPLOADS_DIR", "./uploads")
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		log.Printf("Warning: Failed to create uploads directory: %v", err)
	}
	router.Static("/uploads", uploadsDir)

	apiRoutes := router.Group("/api/v1")
	api.SetupRoutes(apiRoutes, db, authMiddleware, costingCache)

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectRedis wires the optional recipe-cost cache. A nil client (no
// REDIS_URL set) degrades the costing handler to always computing live.
func connectRedis() *redis.Client {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		log.Println("REDIS_URL not set, recipe cost caching disabled")
		return nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		log.Printf("Warning: invalid REDIS_URL, caching disabled: %v", err)
		return nil
	}
	return redis.NewClient(opts)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
