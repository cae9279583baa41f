package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hotelcapital/raise-engine/internal/database"
	"github.com/hotelcapital/raise-engine/internal/logger"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/internal/services"
	"github.com/hotelcapital/raise-engine/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.New()
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if envErr != nil {
		log.Debug("No .env file found")
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	svc := services.NewServices(db.DB, cfg, log)
	pipeline := services.NewRescorePipeline(repository.NewRepositories(db.DB), svc.Scoring, log)

	pipelineConfig := parsePipelineConfig(services.PipelineConfigFrom(cfg))
	log.Info("Rescore pipeline configuration",
		"batch_size", pipelineConfig.BatchSize,
		"interval_minutes", pipelineConfig.IntervalMinutes,
		"max_concurrent", pipelineConfig.MaxConcurrent,
		"rescore_older_than_days", pipelineConfig.RescoreOlderThanDays,
	)

	// Check if this is a one-time run
	if len(os.Args) > 1 && os.Args[1] == "--once" {
		stats, err := pipeline.RunOnce(context.Background(), pipelineConfig)
		if err != nil {
			log.Fatal("One-time rescore failed", err)
		}
		log.Info("One-time rescore completed", "summary", stats.Summary())
		return
	}

	if err := pipeline.Start(pipelineConfig); err != nil {
		log.Fatal("Failed to start pipeline", err)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("Shutdown signal received, stopping pipeline", "signal", fmt.Sprint(sig))

	if err := pipeline.Stop(); err != nil {
		log.Error("Error stopping pipeline", err)
	}
}

// parsePipelineConfig applies PIPELINE_* environment overrides to base
func parsePipelineConfig(base services.PipelineConfig) services.PipelineConfig {
	config := base

	overrides := map[string]*int{
		"PIPELINE_BATCH_SIZE":              &config.BatchSize,
		"PIPELINE_INTERVAL_MINUTES":        &config.IntervalMinutes,
		"PIPELINE_MAX_CONCURRENT":          &config.MaxConcurrent,
		"PIPELINE_RESCORE_OLDER_THAN_DAYS": &config.RescoreOlderThanDays,
	}
	for key, field := range overrides {
		if val := os.Getenv(key); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				*field = parsed
			}
		}
	}

	return config
}
