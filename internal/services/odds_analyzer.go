package services

import (
	"errors"
	"math"
	"sort"

	"github.com/oddsflow/fightline/internal/config"
	"github.com/oddsflow/fightline/internal/models"
	"github.com/oddsflow/fightline/internal/utils"
)

// ErrNoOddsData is returned by the feature extractor when no snapshots exist
// for a fight at all. Analyzer methods below it never fail on sparse input;
// "not enough data yet" is a normal steady state for a newly listed fight.
var ErrNoOddsData = errors.New("no odds data available")

// OddsAnalyzer computes market analytics over caller-supplied snapshot
// collections. It holds only configuration, so a single instance is safe for
// concurrent use and every method is deterministic for a given input.
type OddsAnalyzer struct {
	oddsConfig      config.OddsConfig
	arbitrageConfig config.ArbitrageConfig
}

// NewOddsAnalyzer creates an analyzer with the given calculation thresholds.
func NewOddsAnalyzer(oddsCfg config.OddsConfig, arbCfg config.ArbitrageConfig) *OddsAnalyzer {
	return &OddsAnalyzer{
		oddsConfig:      oddsCfg,
		arbitrageConfig: arbCfg,
	}
}

// ImpliedProbability converts an American moneyline pair into a de-vigged
// probability pair. Each side maps to its raw implied probability, then the
// pair is normalized to sum to exactly 1, which strips the bookmaker margin.
// The only rejected input is a zero odds value; implausible magnitudes still
// produce a mathematically valid probability in (0, 1).
func (a *OddsAnalyzer) ImpliedProbability(moneyline [2]int) ([2]float64, error) {
	rawA, err := rawImpliedProbability(moneyline[models.SideA])
	if err != nil {
		return [2]float64{}, err
	}
	rawB, err := rawImpliedProbability(moneyline[models.SideB])
	if err != nil {
		return [2]float64{}, err
	}

	total := rawA + rawB
	return [2]float64{rawA / total, rawB / total}, nil
}

// rawImpliedProbability converts a single American odds value to the win
// probability the price encodes, vig included.
func rawImpliedProbability(odds int) (float64, error) {
	if odds == 0 {
		return 0, utils.NewValidationError("moneyline odds must be non-zero")
	}
	if odds > 0 {
		return 100.0 / (float64(odds) + 100.0), nil
	}
	abs := math.Abs(float64(odds))
	return abs / (abs + 100.0), nil
}

// payoutMultiple converts American odds to profit per unit staked.
func payoutMultiple(odds int) float64 {
	if odds > 0 {
		return float64(odds) / 100.0
	}
	if odds < 0 {
		return 100.0 / math.Abs(float64(odds))
	}
	return 0
}

// latestPerBook reduces snapshots to the most recent one per sportsbook.
// Older quotes from the same book are superseded, never double counted.
// The result is sorted by sportsbook so downstream output is deterministic.
func latestPerBook(snapshots []models.OddsSnapshot) []models.OddsSnapshot {
	latest := make(map[string]models.OddsSnapshot, len(snapshots))
	for _, snap := range snapshots {
		current, ok := latest[snap.Sportsbook]
		if !ok || snap.Timestamp.After(current.Timestamp) {
			latest[snap.Sportsbook] = snap
		}
	}

	result := make([]models.OddsSnapshot, 0, len(latest))
	for _, snap := range latest {
		result = append(result, snap)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Sportsbook < result[j].Sportsbook
	})
	return result
}

// sortChronologically returns a copy sorted ascending by timestamp. The sort
// is stable so ties keep their input order and repeated runs over the same
// input produce identical output. The caller's slice is left untouched.
func sortChronologically(snapshots []models.OddsSnapshot) []models.OddsSnapshot {
	sorted := make([]models.OddsSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
