package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketConsensus aggregates the latest quote per bookmaker into a market
// view. AverageProbability holds the de-vigged [sideA, sideB] means.
type MarketConsensus struct {
	AverageProbability [2]float64 `json:"average_probability"`
	StandardDeviation  float64    `json:"standard_deviation"`
	BookmakerCount     int        `json:"bookmaker_count"`
	ConsensusStrength  float64    `json:"consensus_strength"` // 0-1
}

// LineMovementMetrics describes how side A's implied probability moved over
// a chronologically ordered snapshot sequence for one fight.
type LineMovementMetrics struct {
	TotalMovement    float64 `json:"total_movement"`
	MovementVelocity float64 `json:"movement_velocity"` // probability points per hour
	ReversalCount    int     `json:"reversal_count"`
	SteamMoveCount   int     `json:"steam_move_count"`
	ClosingLineValue float64 `json:"closing_line_value"`
}

// BookmakerConfidence compares the sharp-book cohort against the public-book
// cohort. An empty cohort reports the neutral [0.5, 0.5] prior.
type BookmakerConfidence struct {
	SharpConsensus        [2]float64 `json:"sharp_consensus"`
	PublicConsensus       [2]float64 `json:"public_consensus"`
	SharpPublicDivergence float64    `json:"sharp_public_divergence"`
}

// ArbitrageOpportunity is a risk-free stake split across two books. Stakes
// are fractions of total outlay keyed by sportsbook and sum to 1.
type ArbitrageOpportunity struct {
	ID            string                     `json:"id,omitempty" db:"id"`
	FightID       string                     `json:"fight_id" db:"fight_id"`
	Sportsbooks   [2]string                  `json:"sportsbooks"`
	ProfitPercent decimal.Decimal            `json:"profit_percent" db:"profit_percent"`
	Stakes        map[string]decimal.Decimal `json:"stakes"`
	DetectedAt    time.Time                  `json:"detected_at" db:"detected_at"`
	ExpiresAt     time.Time                  `json:"expires_at" db:"expires_at"`
}

// ValueConfidence buckets how strong a value edge is.
type ValueConfidence string

const (
	ValueConfidenceLow    ValueConfidence = "low"
	ValueConfidenceMedium ValueConfidence = "medium"
	ValueConfidenceHigh   ValueConfidence = "high"
)

// ValueOpportunity flags a single book pricing one side below the market
// consensus probability.
type ValueOpportunity struct {
	FightID            string          `json:"fight_id"`
	Sportsbook         string          `json:"sportsbook"`
	Side               int             `json:"side"` // SideA or SideB
	Odds               int             `json:"odds"`
	ImpliedProbability float64         `json:"implied_probability"`
	TrueProbability    float64         `json:"true_probability"`
	ExpectedValue      float64         `json:"expected_value"`
	Confidence         ValueConfidence `json:"confidence"`
}

// OddsFeatures is the fixed-shape numeric record consumed by downstream
// prediction models. It is recomputed on demand and never mutated in place.
type OddsFeatures struct {
	FightID string `json:"fight_id"`

	OpeningImpliedProbability float64 `json:"opening_implied_probability"`
	ClosingImpliedProbability float64 `json:"closing_implied_probability"`
	CurrentImpliedProbability float64 `json:"current_implied_probability"`

	ConsensusProbability float64 `json:"consensus_probability"`
	ConsensusStrength    float64 `json:"consensus_strength"`
	MarketDispersion     float64 `json:"market_dispersion"`
	BookmakerCount       float64 `json:"bookmaker_count"`

	TotalMovement    float64 `json:"total_movement"`
	MovementVelocity float64 `json:"movement_velocity"`
	ReversalCount    float64 `json:"reversal_count"`
	SteamMoveCount   float64 `json:"steam_move_count"`
	ClosingLineValue float64 `json:"closing_line_value"`

	ArbitrageCount     float64 `json:"arbitrage_count"`
	MaxArbitrageProfit float64 `json:"max_arbitrage_profit"`

	SharpProbability      float64 `json:"sharp_probability"`
	PublicProbability     float64 `json:"public_probability"`
	SharpPublicDivergence float64 `json:"sharp_public_divergence"`

	AverageVolume    float64 `json:"average_volume"`
	VolumeSpikeRatio float64 `json:"volume_spike_ratio"`

	MethodOddsVariance float64 `json:"method_odds_variance"`
	RoundsOddsVariance float64 `json:"rounds_odds_variance"`

	GeneratedAt time.Time `json:"generated_at"`
}

// MarketAnalysis is the combined payload returned by the analysis endpoint.
type MarketAnalysis struct {
	Consensus          MarketConsensus        `json:"consensus"`
	MarketEfficiency   float64                `json:"market_efficiency"`
	ValueOpportunities []ValueOpportunity     `json:"value_opportunities"`
	Movements          LineMovementMetrics    `json:"movements"`
	Arbitrage          []ArbitrageOpportunity `json:"arbitrage"`
}

// MarketAnalysisResponse wraps MarketAnalysis for API responses.
type MarketAnalysisResponse struct {
	FightID   string         `json:"fight_id"`
	Analysis  MarketAnalysis `json:"analysis"`
	Timestamp time.Time      `json:"timestamp"`
}

// ArbitrageOpportunitiesResponse lists active opportunities.
type ArbitrageOpportunitiesResponse struct {
	Opportunities []ArbitrageOpportunity `json:"opportunities"`
	Count         int                    `json:"count"`
	Timestamp     time.Time              `json:"timestamp"`
}

// ValueOpportunitiesResponse lists positive-EV bets for a fight.
type ValueOpportunitiesResponse struct {
	FightID       string             `json:"fight_id"`
	Opportunities []ValueOpportunity `json:"opportunities"`
	Count         int                `json:"count"`
	Timestamp     time.Time          `json:"timestamp"`
}
