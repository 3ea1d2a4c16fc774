package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsflow/fightline/internal/api/handlers"
	"github.com/oddsflow/fightline/internal/database"
	"github.com/oddsflow/fightline/internal/middleware"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	Odds      *handlers.OddsHandler
	Analysis  *handlers.AnalysisHandler
	Arbitrage *handlers.ArbitrageHandler
	Cleanup   *handlers.CleanupHandler
}

func SetupRoutes(router *gin.Engine, db *database.PostgresDB, redis *database.RedisClient, h Handlers) {
	adminMiddleware := middleware.NewAdminMiddleware()

	// Health check endpoint
	router.GET("/health", healthCheck(db, redis))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Odds snapshot routes
		odds := v1.Group("/odds")
		{
			odds.POST("", adminMiddleware.RequireAdminAuth(), h.Odds.IngestSnapshot)
			odds.GET("/:fightId", h.Odds.GetSnapshots)
		}

		// Market analysis routes
		analysis := v1.Group("/analysis")
		{
			analysis.GET("/:fightId", h.Analysis.GetMarketAnalysis)
			analysis.GET("/:fightId/movement", h.Analysis.GetMovement)
			analysis.GET("/:fightId/confidence", h.Analysis.GetConfidence)
			analysis.GET("/:fightId/value", h.Analysis.GetValueOpportunities)
			analysis.GET("/:fightId/features", h.Analysis.GetFeatures)
		}

		// Arbitrage routes
		arbitrage := v1.Group("/arbitrage")
		{
			arbitrage.GET("/opportunities", h.Arbitrage.GetOpportunities)
		}

		// Admin routes
		admin := v1.Group("/admin", adminMiddleware.RequireAdminAuth())
		{
			admin.POST("/cleanup", h.Cleanup.TriggerCleanup)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "ok",
				Redis:    "ok",
			},
		}

		// Check database health
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Database = "error"
			response.Status = "degraded"
		}

		// Check Redis health
		if err := redis.HealthCheck(c.Request.Context()); err != nil {
			response.Services.Redis = "error"
			response.Status = "degraded"
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
