package services

import (
	"math"

	"github.com/oddsflow/fightline/internal/models"
)

// Movement walks a snapshot sequence for one fight, sorted ascending by
// timestamp, and reports how side A's implied probability moved. Fewer than
// two usable snapshots mean no movement is observable and every field is
// zero.
//
// Consecutive pairs are compared rather than every snapshot against the
// open: both volatile chop and a single directional move can share the same
// total movement, but only the pairwise walk separates them through the
// reversal and steam counts.
func (a *OddsAnalyzer) Movement(snapshots []models.OddsSnapshot) models.LineMovementMetrics {
	sorted := sortChronologically(snapshots)

	// Normalize up front; snapshots with invalid odds drop out of the walk.
	type point struct {
		prob float64
		snap models.OddsSnapshot
	}
	points := make([]point, 0, len(sorted))
	for _, snap := range sorted {
		pair, err := a.ImpliedProbability(snap.Moneyline)
		if err != nil {
			continue
		}
		points = append(points, point{prob: pair[models.SideA], snap: snap})
	}

	if len(points) < 2 {
		return models.LineMovementMetrics{}
	}

	first := points[0]
	last := points[len(points)-1]

	totalMovement := math.Abs(last.prob - first.prob)
	elapsedHours := last.snap.Timestamp.Sub(first.snap.Timestamp).Hours()
	velocity := safeRatio(totalMovement, elapsedHours)

	steamMoves := 0
	reversals := 0
	lastDirection := 0
	for i := 1; i < len(points); i++ {
		delta := points[i].prob - points[i-1].prob

		percentChange := math.Abs(safeRatio(delta, points[i-1].prob)) * 100
		if percentChange >= a.oddsConfig.SteamMoveThreshold {
			steamMoves++
		}

		direction := signOf(delta)
		if direction != 0 {
			if lastDirection != 0 && direction != lastDirection {
				reversals++
			}
			lastDirection = direction
		}
	}

	return models.LineMovementMetrics{
		TotalMovement:    totalMovement,
		MovementVelocity: velocity,
		ReversalCount:    reversals,
		SteamMoveCount:   steamMoves,
		// Mirrors total movement for now; kept separate because total
		// movement may later incorporate bet-placement timing while CLV
		// always anchors to the true close.
		ClosingLineValue: totalMovement,
	}
}
