package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsflow/fightline/internal/models"
)

func setupArbitrageRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewArbitrageHandler(store)

	router := gin.New()
	router.GET("/api/v1/arbitrage/opportunities", handler.GetOpportunities)
	return router
}

func TestGetOpportunities(t *testing.T) {
	now := time.Now()
	store := &stubStore{opportunities: []models.ArbitrageOpportunity{
		{
			ID:            "op-1",
			FightID:       "f1",
			Sportsbooks:   [2]string{"alpha", "beta"},
			ProfitPercent: decimal.NewFromFloat(10),
			DetectedAt:    now,
			ExpiresAt:     now.Add(5 * time.Minute),
		},
	}}
	router := setupArbitrageRouter(store)

	w := getJSON(t, router, "/api/v1/arbitrage/opportunities")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ArbitrageOpportunitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Opportunities, 1)
	assert.Equal(t, "op-1", resp.Opportunities[0].ID)
}

func TestGetOpportunities_LimitApplied(t *testing.T) {
	store := &stubStore{opportunities: []models.ArbitrageOpportunity{
		{ID: "op-1"}, {ID: "op-2"}, {ID: "op-3"},
	}}
	router := setupArbitrageRouter(store)

	w := getJSON(t, router, "/api/v1/arbitrage/opportunities?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ArbitrageOpportunitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestGetOpportunities_RejectsBadLimit(t *testing.T) {
	router := setupArbitrageRouter(&stubStore{})

	for _, limit := range []string{"abc", "0", "-5"} {
		w := getJSON(t, router, "/api/v1/arbitrage/opportunities?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}
}

func TestGetOpportunities_StoreError(t *testing.T) {
	router := setupArbitrageRouter(&stubStore{queryErr: assert.AnError})

	w := getJSON(t, router, "/api/v1/arbitrage/opportunities")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetOpportunities_EmptyIsOK(t *testing.T) {
	router := setupArbitrageRouter(&stubStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/arbitrage/opportunities", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ArbitrageOpportunitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}
