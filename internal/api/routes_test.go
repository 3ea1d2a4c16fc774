package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/oddsflow/fightline/internal/api/handlers"
)

func TestSetupRoutes_RegistersAllEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupRoutes(router, nil, nil, Handlers{
		Odds:      &handlers.OddsHandler{},
		Analysis:  &handlers.AnalysisHandler{},
		Arbitrage: &handlers.ArbitrageHandler{},
		Cleanup:   &handlers.CleanupHandler{},
	})

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		http.MethodGet + " /health",
		http.MethodPost + " /api/v1/odds",
		http.MethodGet + " /api/v1/odds/:fightId",
		http.MethodGet + " /api/v1/analysis/:fightId",
		http.MethodGet + " /api/v1/analysis/:fightId/movement",
		http.MethodGet + " /api/v1/analysis/:fightId/confidence",
		http.MethodGet + " /api/v1/analysis/:fightId/value",
		http.MethodGet + " /api/v1/analysis/:fightId/features",
		http.MethodGet + " /api/v1/arbitrage/opportunities",
		http.MethodPost + " /api/v1/admin/cleanup",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
}
