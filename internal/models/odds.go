package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SideA and SideB index into moneyline and probability pairs.
const (
	SideA = 0
	SideB = 1
)

// OddsSnapshot is one bookmaker's quoted prices for one fight at one instant.
// Snapshots are immutable once recorded; the moneyline pair uses American
// odds (positive = underdog payout per 100 staked, negative = stake required
// to win 100). Values of zero or inside (-100, 100) are rejected at the API
// boundary and never reach the analytics layer.
type OddsSnapshot struct {
	ID         int64            `json:"id,omitempty" db:"id"`
	FightID    string           `json:"fight_id" db:"fight_id"`
	Sportsbook string           `json:"sportsbook" db:"sportsbook"`
	Timestamp  time.Time        `json:"timestamp" db:"timestamp"`
	Moneyline  [2]int           `json:"moneyline" db:"moneyline"`
	Method     *MethodOdds      `json:"method,omitempty"`
	Rounds     *RoundsOdds      `json:"rounds,omitempty"`
	Volume     *decimal.Decimal `json:"volume,omitempty" db:"volume"`
	CreatedAt  time.Time        `json:"created_at,omitempty" db:"created_at"`
}

// MethodOdds quotes the win-by market in American odds.
type MethodOdds struct {
	KO         int `json:"ko"`
	Submission int `json:"submission"`
	Decision   int `json:"decision"`
}

// RoundsOdds quotes the fight-duration market: over/under the round line.
type RoundsOdds struct {
	Line  float64 `json:"line"`
	Over  int     `json:"over"`
	Under int     `json:"under"`
}

// OddsData bundles the inputs the feature extractor consumes. Snapshots are
// owned by the caller; the analytics layer never mutates them.
type OddsData struct {
	Snapshots              []OddsSnapshot         `json:"snapshots"`
	ArbitrageOpportunities []ArbitrageOpportunity `json:"arbitrage_opportunities,omitempty"`
}

// SnapshotRequest is the ingest payload for a single bookmaker observation.
type SnapshotRequest struct {
	FightID    string           `json:"fight_id" binding:"required"`
	Sportsbook string           `json:"sportsbook" binding:"required"`
	Timestamp  time.Time        `json:"timestamp"`
	Moneyline  [2]int           `json:"moneyline" binding:"required"`
	Method     *MethodOdds      `json:"method,omitempty"`
	Rounds     *RoundsOdds      `json:"rounds,omitempty"`
	Volume     *decimal.Decimal `json:"volume,omitempty"`
}

// SnapshotsResponse echoes raw snapshots for a fight.
type SnapshotsResponse struct {
	FightID   string         `json:"fight_id"`
	Odds      []OddsSnapshot `json:"odds"`
	Count     int            `json:"count"`
	Timestamp time.Time      `json:"timestamp"`
}
