package services

import (
	"sort"

	"github.com/oddsflow/fightline/internal/models"
)

// Value scoring thresholds on expected value per unit staked. Reporting
// starts at a five-point edge; medium and high confidence need progressively
// larger edges.
const (
	valueReportThreshold = 0.05
	valueMediumThreshold = 0.08
	valueHighThreshold   = 0.15
)

// FindValue compares every book's price on each side against the consensus
// probability, treating the consensus as the best available estimate of the
// true win probability. A bet has value when
//
//	EV = trueProb*payout - (1-trueProb) - impliedProb
//
// clears the reporting threshold. Results are sorted descending by expected
// value so the strongest edge is first.
func (a *OddsAnalyzer) FindValue(snapshots []models.OddsSnapshot, consensus models.MarketConsensus) []models.ValueOpportunity {
	survivors := latestPerBook(snapshots)

	var opportunities []models.ValueOpportunity
	for _, snap := range survivors {
		pair, err := a.ImpliedProbability(snap.Moneyline)
		if err != nil {
			continue
		}

		for _, side := range []int{models.SideA, models.SideB} {
			trueProb := consensus.AverageProbability[side]
			implied := pair[side]
			payout := payoutMultiple(snap.Moneyline[side])

			expectedValue := trueProb*payout - (1 - trueProb) - implied
			if expectedValue <= valueReportThreshold {
				continue
			}

			opportunities = append(opportunities, models.ValueOpportunity{
				FightID:            snap.FightID,
				Sportsbook:         snap.Sportsbook,
				Side:               side,
				Odds:               snap.Moneyline[side],
				ImpliedProbability: implied,
				TrueProbability:    trueProb,
				ExpectedValue:      expectedValue,
				Confidence:         valueConfidence(expectedValue),
			})
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].ExpectedValue > opportunities[j].ExpectedValue
	})

	return opportunities
}

func valueConfidence(expectedValue float64) models.ValueConfidence {
	switch {
	case expectedValue >= valueHighThreshold:
		return models.ValueConfidenceHigh
	case expectedValue >= valueMediumThreshold:
		return models.ValueConfidenceMedium
	default:
		return models.ValueConfidenceLow
	}
}
