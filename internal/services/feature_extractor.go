package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddsflow/fightline/internal/models"
)

// ExtractFeatures is the top-level entry point of the analytics layer: it
// runs every analyzer over the snapshot set and packs the results into the
// fixed-shape numeric record consumed by prediction models.
//
// It fails only when the snapshot list is entirely empty; there is no market
// to describe, and fabricating a vector would poison downstream training
// data. Every sparser-but-nonempty input produces well-defined neutral
// values instead.
func (a *OddsAnalyzer) ExtractFeatures(data models.OddsData) (*models.OddsFeatures, error) {
	if len(data.Snapshots) == 0 {
		return nil, ErrNoOddsData
	}

	sorted := sortChronologically(data.Snapshots)
	opening := sorted[0]
	closing := sorted[len(sorted)-1]

	consensus := a.Consensus(sorted)
	movement := a.Movement(sorted)
	confidence := a.Confidence(sorted)

	arbitrage := data.ArbitrageOpportunities
	if arbitrage == nil {
		arbitrage = a.DetectArbitrage(sorted)
	}

	features := &models.OddsFeatures{
		FightID: opening.FightID,

		OpeningImpliedProbability: sideAProbability(a, opening),
		ClosingImpliedProbability: sideAProbability(a, closing),
		CurrentImpliedProbability: sideAProbability(a, closing),

		ConsensusProbability: consensus.AverageProbability[models.SideA],
		ConsensusStrength:    consensus.ConsensusStrength,
		MarketDispersion:     consensus.StandardDeviation,
		BookmakerCount:       float64(consensus.BookmakerCount),

		TotalMovement:    movement.TotalMovement,
		MovementVelocity: movement.MovementVelocity,
		ReversalCount:    float64(movement.ReversalCount),
		SteamMoveCount:   float64(movement.SteamMoveCount),
		ClosingLineValue: movement.ClosingLineValue,

		ArbitrageCount:     float64(len(arbitrage)),
		MaxArbitrageProfit: maxProfitPercent(arbitrage),

		SharpProbability:      confidence.SharpConsensus[models.SideA],
		PublicProbability:     confidence.PublicConsensus[models.SideA],
		SharpPublicDivergence: confidence.SharpPublicDivergence,

		MethodOddsVariance: a.methodMarketVariance(sorted),
		RoundsOddsVariance: a.roundsMarketVariance(sorted),

		GeneratedAt: time.Now(),
	}

	features.AverageVolume, features.VolumeSpikeRatio = volumeFeatures(sorted)

	return features, nil
}

// sideAProbability normalizes a single snapshot and reports side A. Invalid
// odds fall back to the neutral prior rather than failing the vector.
func sideAProbability(a *OddsAnalyzer, snap models.OddsSnapshot) float64 {
	pair, err := a.ImpliedProbability(snap.Moneyline)
	if err != nil {
		return neutralProbability[models.SideA]
	}
	return pair[models.SideA]
}

func maxProfitPercent(opportunities []models.ArbitrageOpportunity) float64 {
	maxProfit := decimal.Zero
	for _, opp := range opportunities {
		if opp.ProfitPercent.GreaterThan(maxProfit) {
			maxProfit = opp.ProfitPercent
		}
	}
	return maxProfit.InexactFloat64()
}

// volumeFeatures reports the mean bookmaker-supplied volume and how the most
// recent observation compares to that mean. Snapshots without a volume are
// skipped; no volume at all yields zeros.
func volumeFeatures(sorted []models.OddsSnapshot) (average, spikeRatio float64) {
	volumes := make([]float64, 0, len(sorted))
	var latest float64
	for _, snap := range sorted {
		if snap.Volume == nil {
			continue
		}
		v := snap.Volume.InexactFloat64()
		volumes = append(volumes, v)
		latest = v
	}
	if len(volumes) == 0 {
		return 0, 0
	}

	average = calculateMeanFloat64(volumes)
	spikeRatio = safeRatio(latest, average)
	return average, spikeRatio
}

// methodMarketVariance measures cross-book disagreement on the win-by
// market. Each quoting book's three prices are normalized to a vig-free
// distribution, then the per-outcome population variances across books are
// averaged. Fewer than two quoting books means no disagreement to measure.
func (a *OddsAnalyzer) methodMarketVariance(snapshots []models.OddsSnapshot) float64 {
	survivors := latestPerBook(snapshots)

	var ko, sub, dec []float64
	for _, snap := range survivors {
		if snap.Method == nil {
			continue
		}
		pKO, errKO := rawImpliedProbability(snap.Method.KO)
		pSub, errSub := rawImpliedProbability(snap.Method.Submission)
		pDec, errDec := rawImpliedProbability(snap.Method.Decision)
		if errKO != nil || errSub != nil || errDec != nil {
			continue
		}
		total := pKO + pSub + pDec
		ko = append(ko, pKO/total)
		sub = append(sub, pSub/total)
		dec = append(dec, pDec/total)
	}

	if len(ko) < 2 {
		return 0
	}
	return (calculatePopulationVariance(ko) + calculatePopulationVariance(sub) + calculatePopulationVariance(dec)) / 3
}

// roundsMarketVariance is the two-way analogue for the fight-duration market.
func (a *OddsAnalyzer) roundsMarketVariance(snapshots []models.OddsSnapshot) float64 {
	survivors := latestPerBook(snapshots)

	var over, under []float64
	for _, snap := range survivors {
		if snap.Rounds == nil {
			continue
		}
		pOver, errOver := rawImpliedProbability(snap.Rounds.Over)
		pUnder, errUnder := rawImpliedProbability(snap.Rounds.Under)
		if errOver != nil || errUnder != nil {
			continue
		}
		total := pOver + pUnder
		over = append(over, pOver/total)
		under = append(under, pUnder/total)
	}

	if len(over) < 2 {
		return 0
	}
	return (calculatePopulationVariance(over) + calculatePopulationVariance(under)) / 2
}

// AnalyzeMarket bundles the consensus, movement, value, and arbitrage views
// into the combined payload served by the analysis endpoint. Market
// efficiency is the consensus strength: a tight market is an efficient one.
func (a *OddsAnalyzer) AnalyzeMarket(snapshots []models.OddsSnapshot) models.MarketAnalysis {
	consensus := a.Consensus(snapshots)
	return models.MarketAnalysis{
		Consensus:          consensus,
		MarketEfficiency:   consensus.ConsensusStrength,
		ValueOpportunities: a.FindValue(snapshots, consensus),
		Movements:          a.Movement(snapshots),
		Arbitrage:          a.DetectArbitrage(snapshots),
	}
}
