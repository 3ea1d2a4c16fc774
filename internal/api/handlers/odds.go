package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsflow/fightline/internal/cache"
	"github.com/oddsflow/fightline/internal/models"
	"github.com/oddsflow/fightline/internal/utils"
)

// SnapshotStore is the repository surface the HTTP layer depends on.
type SnapshotStore interface {
	InsertSnapshot(ctx context.Context, snap *models.OddsSnapshot) error
	GetFightSnapshots(ctx context.Context, fightID string) ([]models.OddsSnapshot, error)
	GetSnapshots(ctx context.Context, fightID string, from, to time.Time) ([]models.OddsSnapshot, error)
	GetActiveOpportunities(ctx context.Context, limit int) ([]models.ArbitrageOpportunity, error)
}

// OddsHandler serves snapshot ingest and raw snapshot echo.
type OddsHandler struct {
	store SnapshotStore
	cache *cache.AnalysisCache
}

// NewOddsHandler creates an odds handler.
func NewOddsHandler(store SnapshotStore, analysisCache *cache.AnalysisCache) *OddsHandler {
	return &OddsHandler{
		store: store,
		cache: analysisCache,
	}
}

// IngestSnapshot validates and records one bookmaker observation. This is
// the validation boundary: malformed odds are rejected here so the analytics
// layer only ever sees well-formed snapshots.
func (h *OddsHandler) IngestSnapshot(c *gin.Context) {
	var req models.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := validateSnapshotRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	snap := models.OddsSnapshot{
		FightID:    req.FightID,
		Sportsbook: req.Sportsbook,
		Timestamp:  req.Timestamp,
		Moneyline:  req.Moneyline,
		Method:     req.Method,
		Rounds:     req.Rounds,
		Volume:     req.Volume,
	}

	if err := h.store.InsertSnapshot(c.Request.Context(), &snap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store snapshot"})
		return
	}

	// The line moved; cached analyses for this fight are stale now.
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), snap.FightID)
	}

	c.JSON(http.StatusCreated, snap)
}

// GetSnapshots echoes the raw snapshots for a fight, optionally bounded by
// from/to RFC 3339 query parameters.
func (h *OddsHandler) GetSnapshots(c *gin.Context) {
	fightID := c.Param("fightId")

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var snapshots []models.OddsSnapshot
	if from.IsZero() && to.IsZero() {
		snapshots, err = h.store.GetFightSnapshots(c.Request.Context(), fightID)
	} else {
		if to.IsZero() {
			to = time.Now()
		}
		snapshots, err = h.store.GetSnapshots(c.Request.Context(), fightID, from, to)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshots"})
		return
	}

	c.JSON(http.StatusOK, models.SnapshotsResponse{
		FightID:   fightID,
		Odds:      snapshots,
		Count:     len(snapshots),
		Timestamp: time.Now(),
	})
}

func parseTimeRange(c *gin.Context) (from, to time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, errors.New("invalid from parameter, expected RFC 3339")
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, errors.New("invalid to parameter, expected RFC 3339")
		}
	}
	return from, to, nil
}

// validateSnapshotRequest enforces the moneyline invariant: American odds
// are non-zero and never inside (-100, 100).
func validateSnapshotRequest(req *models.SnapshotRequest) error {
	for _, odds := range req.Moneyline {
		if err := validateAmericanOdds(odds); err != nil {
			return err
		}
	}
	if req.Method != nil {
		for _, odds := range []int{req.Method.KO, req.Method.Submission, req.Method.Decision} {
			if err := validateAmericanOdds(odds); err != nil {
				return err
			}
		}
	}
	if req.Rounds != nil {
		for _, odds := range []int{req.Rounds.Over, req.Rounds.Under} {
			if err := validateAmericanOdds(odds); err != nil {
				return err
			}
		}
	}
	if req.Volume != nil && req.Volume.IsNegative() {
		return utils.NewValidationError("volume must not be negative")
	}
	return nil
}

func validateAmericanOdds(odds int) error {
	if odds == 0 {
		return utils.NewValidationError("odds must be non-zero")
	}
	if odds > -100 && odds < 100 {
		return utils.NewValidationErrorf("odds value %d is not a valid American price", odds)
	}
	return nil
}
