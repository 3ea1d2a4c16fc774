package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsflow/fightline/internal/cache"
	"github.com/oddsflow/fightline/internal/models"
	"github.com/oddsflow/fightline/internal/services"
)

// AnalysisHandler serves the computed market analytics for a fight.
type AnalysisHandler struct {
	store    SnapshotStore
	analyzer *services.OddsAnalyzer
	cache    *cache.AnalysisCache
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(store SnapshotStore, analyzer *services.OddsAnalyzer, analysisCache *cache.AnalysisCache) *AnalysisHandler {
	return &AnalysisHandler{
		store:    store,
		analyzer: analyzer,
		cache:    analysisCache,
	}
}

// GetMarketAnalysis returns the combined consensus, efficiency, value,
// movement, and arbitrage view for a fight. Computed results are cached
// briefly; ingest invalidates the entry.
func (h *AnalysisHandler) GetMarketAnalysis(c *gin.Context) {
	fightID := c.Param("fightId")
	ctx := c.Request.Context()

	if h.cache != nil {
		if analysis, ok := h.cache.Get(ctx, fightID); ok {
			c.JSON(http.StatusOK, models.MarketAnalysisResponse{
				FightID:   fightID,
				Analysis:  *analysis,
				Timestamp: time.Now(),
			})
			return
		}
	}

	snapshots, err := h.store.GetFightSnapshots(ctx, fightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	analysis := h.analyzer.AnalyzeMarket(snapshots)

	if h.cache != nil && len(snapshots) > 0 {
		h.cache.Set(ctx, fightID, &analysis)
	}

	c.JSON(http.StatusOK, models.MarketAnalysisResponse{
		FightID:   fightID,
		Analysis:  analysis,
		Timestamp: time.Now(),
	})
}

// GetMovement returns the line-movement metrics for a fight.
func (h *AnalysisHandler) GetMovement(c *gin.Context) {
	fightID := c.Param("fightId")

	snapshots, err := h.store.GetFightSnapshots(c.Request.Context(), fightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fight_id":  fightID,
		"movement":  h.analyzer.Movement(snapshots),
		"count":     len(snapshots),
		"timestamp": time.Now(),
	})
}

// GetConfidence returns the sharp-vs-public divergence for a fight.
func (h *AnalysisHandler) GetConfidence(c *gin.Context) {
	fightID := c.Param("fightId")

	snapshots, err := h.store.GetFightSnapshots(c.Request.Context(), fightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fight_id":   fightID,
		"confidence": h.analyzer.Confidence(snapshots),
		"timestamp":  time.Now(),
	})
}

// GetValueOpportunities returns positive-EV bets for a fight.
func (h *AnalysisHandler) GetValueOpportunities(c *gin.Context) {
	fightID := c.Param("fightId")

	snapshots, err := h.store.GetFightSnapshots(c.Request.Context(), fightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	consensus := h.analyzer.Consensus(snapshots)
	opportunities := h.analyzer.FindValue(snapshots, consensus)

	c.JSON(http.StatusOK, models.ValueOpportunitiesResponse{
		FightID:       fightID,
		Opportunities: opportunities,
		Count:         len(opportunities),
		Timestamp:     time.Now(),
	})
}

// GetFeatures returns the fixed-shape feature vector for a fight. A fight
// with no snapshots at all is a 404, not a fabricated vector.
func (h *AnalysisHandler) GetFeatures(c *gin.Context) {
	fightID := c.Param("fightId")

	snapshots, err := h.store.GetFightSnapshots(c.Request.Context(), fightID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	features, err := h.analyzer.ExtractFeatures(models.OddsData{Snapshots: snapshots})
	if err != nil {
		if errors.Is(err, services.ErrNoOddsData) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No odds data for fight"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract features"})
		return
	}

	c.JSON(http.StatusOK, features)
}
