package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oddsflow/fightline/internal/api"
	"github.com/oddsflow/fightline/internal/api/handlers"
	"github.com/oddsflow/fightline/internal/cache"
	"github.com/oddsflow/fightline/internal/config"
	"github.com/oddsflow/fightline/internal/database"
	"github.com/oddsflow/fightline/internal/logging"
	"github.com/oddsflow/fightline/internal/services"
)

func main() {
	// Load .env for local development; ignore absence in deployed environments
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logging.ParseLogrusLevel(cfg.LogLevel))
	logger := logging.NewStandardLogger(cfg.LogLevel)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redis, err := database.NewRedisConnection(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	repository := database.NewOddsRepository(db.Pool)
	analyzer := services.NewOddsAnalyzer(cfg.Odds, cfg.Arbitrage)
	analysisCache := cache.NewAnalysisCache(redis.Client, cfg.Cache.AnalysisTTLDuration())

	// Background services
	arbitrageService := services.NewArbitrageService(repository, analyzer, cfg.Arbitrage)
	if err := arbitrageService.Start(); err != nil {
		log.Fatalf("Failed to start arbitrage service: %v", err)
	}
	defer arbitrageService.Stop()

	cleanupService := services.NewCleanupService(repository, cfg.Cleanup)
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("Failed to start cleanup service: %v", err)
	}
	defer cleanupService.Stop()

	// Setup Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, db, redis, api.Handlers{
		Odds:      handlers.NewOddsHandler(repository, analysisCache),
		Analysis:  handlers.NewAnalysisHandler(repository, analyzer, analysisCache),
		Arbitrage: handlers.NewArbitrageHandler(repository),
		Cleanup:   handlers.NewCleanupHandler(cleanupService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.LogStartup("fightline", "1.0.0", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.LogShutdown("fightline", "signal received")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
