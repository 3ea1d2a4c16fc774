package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddsflow/fightline/internal/models"
)

func TestDetectArbitrage_CrossBookOpportunity(t *testing.T) {
	analyzer := newTestAnalyzer()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// alpha pays best on side A (+120), beta on side B (+120). Raw implied
	// probabilities are 100/220 each, summing to 0.909.
	opportunities := analyzer.DetectArbitrage([]models.OddsSnapshot{
		snapshot("f1", "alpha", t0, +120, -140),
		snapshot("f1", "beta", t0, -140, +120),
	})

	require.Len(t, opportunities, 1)
	opp := opportunities[0]

	assert.Equal(t, "f1", opp.FightID)
	assert.Equal(t, [2]string{"alpha", "beta"}, opp.Sportsbooks)
	assert.InDelta(t, 10.0, opp.ProfitPercent.InexactFloat64(), 1e-9)

	stakeA := opp.Stakes["alpha"]
	stakeB := opp.Stakes["beta"]
	assert.InDelta(t, 0.5, stakeA.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.5, stakeB.InexactFloat64(), 1e-9)
	assert.True(t, stakeA.Add(stakeB).Equal(decimal.NewFromInt(1)))

	assert.True(t, opp.ExpiresAt.After(opp.DetectedAt))
	assert.Equal(t, 5*time.Minute, opp.ExpiresAt.Sub(opp.DetectedAt))
}

func TestDetectArbitrage_NoOpportunityWhenBooksAgree(t *testing.T) {
	analyzer := newTestAnalyzer()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Best side A is -140 (0.583), best side B is +125 (0.444); sum > 1.
	opportunities := analyzer.DetectArbitrage([]models.OddsSnapshot{
		snapshot("f1", "draftkings", t0, -140, +120),
		snapshot("f1", "fanduel", t0, -145, +125),
	})

	assert.Empty(t, opportunities)
}

func TestDetectArbitrage_MinProfitSuppressesThinEdges(t *testing.T) {
	analyzer := newTestAnalyzer()
	analyzer.arbitrageConfig.MinProfitPercent = 15.0
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Same 10% spread as above, now below the configured floor.
	opportunities := analyzer.DetectArbitrage([]models.OddsSnapshot{
		snapshot("f1", "alpha", t0, +120, -140),
		snapshot("f1", "beta", t0, -140, +120),
	})

	assert.Empty(t, opportunities)
}

func TestDetectArbitrage_UsesLatestQuotePerBook(t *testing.T) {
	analyzer := newTestAnalyzer()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// alpha's early +120 on side A is superseded by a later -140; no spread
	// survives against beta.
	opportunities := analyzer.DetectArbitrage([]models.OddsSnapshot{
		snapshot("f1", "alpha", t0, +120, -140),
		snapshot("f1", "alpha", t0.Add(time.Hour), -140, +110),
		snapshot("f1", "beta", t0, -140, +120),
	})

	assert.Empty(t, opportunities)
}

func TestDetectArbitrage_SameBookBothSides(t *testing.T) {
	analyzer := newTestAnalyzer()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A single mispriced book: both sides at +200, raw 1/3 each.
	opportunities := analyzer.DetectArbitrage([]models.OddsSnapshot{
		snapshot("f1", "alpha", t0, +200, +200),
	})

	require.Len(t, opportunities, 1)
	opp := opportunities[0]

	assert.Equal(t, [2]string{"alpha", "alpha"}, opp.Sportsbooks)
	require.Len(t, opp.Stakes, 1)
	assert.True(t, opp.Stakes["alpha"].Equal(decimal.NewFromInt(1)))
	assert.InDelta(t, 50.0, opp.ProfitPercent.InexactFloat64(), 1e-9)
}

func TestDetectArbitrage_EmptyInput(t *testing.T) {
	analyzer := newTestAnalyzer()
	assert.Empty(t, analyzer.DetectArbitrage(nil))
}

func TestBestPriceForSide_HigherOddsAlwaysPayBetter(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	snaps := []models.OddsSnapshot{
		snapshot("f1", "a", t0, -120, +100),
		snapshot("f1", "b", t0, -105, +100),
		snapshot("f1", "c", t0, +150, +100),
	}

	best, ok := bestPriceForSide(snaps, models.SideA)
	require.True(t, ok)
	assert.Equal(t, "c", best.Sportsbook)

	// Zero odds are unquoted, never the best price.
	_, ok = bestPriceForSide([]models.OddsSnapshot{snapshot("f1", "a", t0, 0, +100)}, models.SideA)
	assert.False(t, ok)
}
