package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsflow/fightline/internal/models"
)

// stubStore is an in-memory SnapshotStore for handler tests.
type stubStore struct {
	snapshots     []models.OddsSnapshot
	opportunities []models.ArbitrageOpportunity
	insertErr     error
	queryErr      error
	inserted      []models.OddsSnapshot
}

func (s *stubStore) InsertSnapshot(_ context.Context, snap *models.OddsSnapshot) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	snap.ID = int64(len(s.inserted) + 1)
	snap.CreatedAt = time.Now()
	s.inserted = append(s.inserted, *snap)
	return nil
}

func (s *stubStore) GetFightSnapshots(_ context.Context, fightID string) ([]models.OddsSnapshot, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []models.OddsSnapshot
	for _, snap := range s.snapshots {
		if snap.FightID == fightID {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *stubStore) GetSnapshots(_ context.Context, fightID string, from, to time.Time) ([]models.OddsSnapshot, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	var out []models.OddsSnapshot
	for _, snap := range s.snapshots {
		if snap.FightID == fightID && !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *stubStore) GetActiveOpportunities(_ context.Context, limit int) ([]models.ArbitrageOpportunity, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if limit > len(s.opportunities) {
		limit = len(s.opportunities)
	}
	return s.opportunities[:limit], nil
}

func testSnapshot(fightID, book string, ts time.Time, mlA, mlB int) models.OddsSnapshot {
	return models.OddsSnapshot{
		FightID:    fightID,
		Sportsbook: book,
		Timestamp:  ts,
		Moneyline:  [2]int{mlA, mlB},
	}
}

func setupOddsRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewOddsHandler(store, nil)

	router := gin.New()
	router.POST("/api/v1/odds", handler.IngestSnapshot)
	router.GET("/api/v1/odds/:fightId", handler.GetSnapshots)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestIngestSnapshot_Created(t *testing.T) {
	store := &stubStore{}
	router := setupOddsRouter(store)

	w := postJSON(t, router, "/api/v1/odds", models.SnapshotRequest{
		FightID:    "ufc-300-main",
		Sportsbook: "draftkings",
		Moneyline:  [2]int{-150, +130},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "ufc-300-main", store.inserted[0].FightID)
	assert.False(t, store.inserted[0].Timestamp.IsZero(), "missing timestamp defaults to now")
}

func TestIngestSnapshot_RejectsInvalidMoneyline(t *testing.T) {
	cases := map[string][2]int{
		"zero side A":     {0, +130},
		"zero side B":     {-150, 0},
		"inside band +50": {+50, -130},
		"inside band -99": {-99, +120},
	}

	for name, moneyline := range cases {
		t.Run(name, func(t *testing.T) {
			store := &stubStore{}
			router := setupOddsRouter(store)

			w := postJSON(t, router, "/api/v1/odds", models.SnapshotRequest{
				FightID:    "f1",
				Sportsbook: "draftkings",
				Moneyline:  moneyline,
			})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.inserted)
		})
	}
}

func TestIngestSnapshot_RejectsInvalidMethodOdds(t *testing.T) {
	router := setupOddsRouter(&stubStore{})

	w := postJSON(t, router, "/api/v1/odds", models.SnapshotRequest{
		FightID:    "f1",
		Sportsbook: "draftkings",
		Moneyline:  [2]int{-150, +130},
		Method:     &models.MethodOdds{KO: +200, Submission: 0, Decision: -130},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestSnapshot_RejectsMissingFields(t *testing.T) {
	router := setupOddsRouter(&stubStore{})

	w := postJSON(t, router, "/api/v1/odds", map[string]any{
		"sportsbook": "draftkings",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSnapshots_ReturnsEnvelope(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{snapshots: []models.OddsSnapshot{
		testSnapshot("f1", "draftkings", t0, -150, +130),
		testSnapshot("f1", "fanduel", t0, -145, +125),
		testSnapshot("other", "draftkings", t0, -200, +170),
	}}
	router := setupOddsRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/odds/f1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SnapshotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "f1", resp.FightID)
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Odds, 2)
}

func TestGetSnapshots_TimeRangeFilter(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubStore{snapshots: []models.OddsSnapshot{
		testSnapshot("f1", "draftkings", t0, -150, +130),
		testSnapshot("f1", "draftkings", t0.Add(2*time.Hour), -140, +120),
	}}
	router := setupOddsRouter(store)

	w := httptest.NewRecorder()
	url := "/api/v1/odds/f1?from=" + t0.Add(time.Hour).Format(time.RFC3339)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SnapshotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestGetSnapshots_RejectsBadTimeParameter(t *testing.T) {
	router := setupOddsRouter(&stubStore{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/odds/f1?from=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
