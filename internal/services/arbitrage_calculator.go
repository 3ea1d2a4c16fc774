package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddsflow/fightline/internal/models"
)

// DetectArbitrage scans the latest quote per bookmaker for a two-sided
// arbitrage. For each side it takes the numerically highest moneyline (best
// payout) across books, converts that single price to its raw implied
// probability, and checks whether the two probabilities sum below 1. The two
// probabilities come from different books with different margins, so they
// are deliberately not normalized against each other.
//
// The stake split pA/(pA+pB) and its complement equalize the payout across
// both outcomes, which is what makes the profit risk free. Opportunities
// below the configured minimum profit are suppressed.
func (a *OddsAnalyzer) DetectArbitrage(snapshots []models.OddsSnapshot) []models.ArbitrageOpportunity {
	survivors := latestPerBook(snapshots)
	if len(survivors) == 0 {
		return nil
	}

	bestA, okA := bestPriceForSide(survivors, models.SideA)
	bestB, okB := bestPriceForSide(survivors, models.SideB)
	if !okA || !okB {
		return nil
	}

	probA, errA := rawImpliedProbability(bestA.Moneyline[models.SideA])
	probB, errB := rawImpliedProbability(bestB.Moneyline[models.SideB])
	if errA != nil || errB != nil {
		return nil
	}

	totalProb := probA + probB
	if totalProb >= 1 {
		return nil
	}

	profitPercent := (1/totalProb - 1) * 100
	if profitPercent < a.arbitrageConfig.MinProfitPercent {
		return nil
	}

	stakeA := probA / totalProb
	stakeB := 1 - stakeA

	// Both best prices can come from the same book. That still satisfies the
	// math, though a true cross-book arbitrage needs two distinct books; the
	// caller can filter on Sportsbooks if it wants the strict form.
	stakes := map[string]decimal.Decimal{
		bestA.Sportsbook: decimal.NewFromFloat(stakeA),
	}
	if bestB.Sportsbook == bestA.Sportsbook {
		stakes[bestA.Sportsbook] = decimal.NewFromFloat(1)
	} else {
		stakes[bestB.Sportsbook] = decimal.NewFromFloat(stakeB)
	}

	detectedAt := time.Now()
	opportunity := models.ArbitrageOpportunity{
		FightID:       survivors[0].FightID,
		Sportsbooks:   [2]string{bestA.Sportsbook, bestB.Sportsbook},
		ProfitPercent: decimal.NewFromFloat(profitPercent),
		Stakes:        stakes,
		DetectedAt:    detectedAt,
		ExpiresAt:     detectedAt.Add(a.arbitrageConfig.OpportunityTTLDuration()),
	}

	return []models.ArbitrageOpportunity{opportunity}
}

// bestPriceForSide returns the snapshot quoting the highest moneyline value
// for the given side. Higher American odds always pay better: +150 beats
// +120, and -105 beats -120.
func bestPriceForSide(snapshots []models.OddsSnapshot, side int) (models.OddsSnapshot, bool) {
	var best models.OddsSnapshot
	found := false
	for _, snap := range snapshots {
		if snap.Moneyline[side] == 0 {
			continue
		}
		if !found || snap.Moneyline[side] > best.Moneyline[side] {
			best = snap
			found = true
		}
	}
	return best, found
}
