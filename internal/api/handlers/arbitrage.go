package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsflow/fightline/internal/models"
)

const defaultOpportunityLimit = 50

// ArbitrageHandler serves stored arbitrage opportunities.
type ArbitrageHandler struct {
	store SnapshotStore
}

// NewArbitrageHandler creates an arbitrage handler.
func NewArbitrageHandler(store SnapshotStore) *ArbitrageHandler {
	return &ArbitrageHandler{
		store: store,
	}
}

// GetOpportunities lists unexpired arbitrage opportunities found by the
// background scanner, most profitable first.
func (h *ArbitrageHandler) GetOpportunities(c *gin.Context) {
	limit := defaultOpportunityLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	opportunities, err := h.store.GetActiveOpportunities(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load opportunities"})
		return
	}

	c.JSON(http.StatusOK, models.ArbitrageOpportunitiesResponse{
		Opportunities: opportunities,
		Count:         len(opportunities),
		Timestamp:     time.Now(),
	})
}
