package services

import (
	"math"

	"github.com/oddsflow/fightline/internal/models"
)

// neutralProbability is the prior reported when a cohort has no quotes: with
// no information, both fighters are even money.
var neutralProbability = [2]float64{0.5, 0.5}

// consensusStrengthScale converts dispersion into a confidence score. The
// scaling is deliberately steep so modest disagreement across books drives
// confidence toward zero; it is a calibration constant, not a law.
const consensusStrengthScale = 10.0

// Consensus aggregates the latest snapshot per bookmaker into a market
// consensus. Zero snapshots yield the neutral prior with zero strength; a
// single book yields zero deviation and full strength, which is degenerate
// but well defined since a lone quote cannot disagree with itself.
func (a *OddsAnalyzer) Consensus(snapshots []models.OddsSnapshot) models.MarketConsensus {
	avg, stdDev, count := a.cohortConsensus(snapshots)
	if count == 0 {
		return models.MarketConsensus{
			AverageProbability: neutralProbability,
			StandardDeviation:  0,
			BookmakerCount:     0,
			ConsensusStrength:  0,
		}
	}

	strength := math.Max(0, 1-stdDev*consensusStrengthScale)

	return models.MarketConsensus{
		AverageProbability: avg,
		StandardDeviation:  stdDev,
		BookmakerCount:     count,
		ConsensusStrength:  strength,
	}
}

// cohortConsensus runs the shared aggregation: dedup to the latest snapshot
// per book, normalize each survivor, then average the two sides
// independently. The deviation is the square root of the per-side population
// variances averaged across both sides. Snapshots whose moneyline fails
// normalization are skipped rather than failing the whole cohort.
func (a *OddsAnalyzer) cohortConsensus(snapshots []models.OddsSnapshot) (avg [2]float64, stdDev float64, count int) {
	survivors := latestPerBook(snapshots)

	probsA := make([]float64, 0, len(survivors))
	probsB := make([]float64, 0, len(survivors))
	for _, snap := range survivors {
		pair, err := a.ImpliedProbability(snap.Moneyline)
		if err != nil {
			continue
		}
		probsA = append(probsA, pair[models.SideA])
		probsB = append(probsB, pair[models.SideB])
	}

	if len(probsA) == 0 {
		return neutralProbability, 0, 0
	}

	avg[models.SideA] = calculateMeanFloat64(probsA)
	avg[models.SideB] = calculateMeanFloat64(probsB)

	meanVariance := (calculatePopulationVariance(probsA) + calculatePopulationVariance(probsB)) / 2
	stdDev = math.Sqrt(meanVariance)

	return avg, stdDev, len(probsA)
}
