package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelcapital/raise-engine/internal/api"
	"github.com/hotelcapital/raise-engine/internal/database"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/middleware"
	"github.com/hotelcapital/raise-engine/internal/services"
	"github.com/hotelcapital/raise-engine/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	// Initialize configuration
	cfg := config.New()
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if envErr != nil {
		log.Debug("No .env file found")
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set", errors.New("missing JWT secret"))
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetTrustedProxies()); err != nil {
		log.Fatal("Invalid trusted proxies", err)
	}

	// Add security middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))

	// Add rate limiting in production
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(middleware.NewRateLimiter(100, time.Minute)))
	}

	// Setup API routes
	pipeline := api.SetupRoutes(r, db, cfg, log)

	// Single-process deploys run the rescore loop alongside the API
	if cfg.RescoreAutostart {
		if err := pipeline.Start(services.PipelineConfigFrom(cfg)); err != nil {
			log.Error("Failed to start rescore pipeline", err)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", "signal", fmt.Sprint(sig))

	if pipeline.IsRunning() {
		if err := pipeline.Stop(); err != nil {
			log.Error("Failed to stop rescore pipeline", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", err)
	}
	log.Info("Server stopped")
}
