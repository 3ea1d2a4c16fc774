package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/oddsflow/fightline/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// OddsRepository handles database operations for odds snapshots and stored
// arbitrage opportunities. The analytics layer never touches the database;
// callers fetch snapshots here and pass them in.
type OddsRepository struct {
	pool DatabasePool
}

// NewOddsRepository creates a new odds repository.
func NewOddsRepository(pool DatabasePool) *OddsRepository {
	return &OddsRepository{
		pool: pool,
	}
}

const snapshotColumns = `
	id, fight_id, sportsbook, moneyline_a, moneyline_b,
	method_ko, method_submission, method_decision,
	rounds_line, rounds_over, rounds_under,
	volume, timestamp, created_at`

// InsertSnapshot records one bookmaker observation. Snapshots are immutable;
// there is no update path.
func (r *OddsRepository) InsertSnapshot(ctx context.Context, snap *models.OddsSnapshot) error {
	query := `
		INSERT INTO odds_snapshots (
			fight_id, sportsbook, moneyline_a, moneyline_b,
			method_ko, method_submission, method_decision,
			rounds_line, rounds_over, rounds_under,
			volume, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	var methodKO, methodSub, methodDec *int
	if snap.Method != nil {
		methodKO = &snap.Method.KO
		methodSub = &snap.Method.Submission
		methodDec = &snap.Method.Decision
	}
	var roundsLine *float64
	var roundsOver, roundsUnder *int
	if snap.Rounds != nil {
		roundsLine = &snap.Rounds.Line
		roundsOver = &snap.Rounds.Over
		roundsUnder = &snap.Rounds.Under
	}

	err := r.pool.QueryRow(ctx, query,
		snap.FightID, snap.Sportsbook, snap.Moneyline[models.SideA], snap.Moneyline[models.SideB],
		methodKO, methodSub, methodDec,
		roundsLine, roundsOver, roundsUnder,
		snap.Volume, snap.Timestamp,
	).Scan(&snap.ID, &snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert odds snapshot: %w", err)
	}

	return nil
}

// GetSnapshots returns all snapshots for a fight within the time range,
// oldest first.
func (r *OddsRepository) GetSnapshots(ctx context.Context, fightID string, from, to time.Time) ([]models.OddsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM odds_snapshots
		WHERE fight_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`

	rows, err := r.pool.Query(ctx, query, fightID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetFightSnapshots returns the full snapshot history for a fight, oldest
// first.
func (r *OddsRepository) GetFightSnapshots(ctx context.Context, fightID string) ([]models.OddsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM odds_snapshots
		WHERE fight_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := r.pool.Query(ctx, query, fightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetLatestSnapshots returns the most recent snapshot per sportsbook for a
// fight. The analytics layer applies the same supersede rule itself; this
// query exists so the arbitrage scanner can avoid loading full histories.
func (r *OddsRepository) GetLatestSnapshots(ctx context.Context, fightID string) ([]models.OddsSnapshot, error) {
	query := `
		SELECT DISTINCT ON (sportsbook) ` + snapshotColumns + `
		FROM odds_snapshots
		WHERE fight_id = $1
		ORDER BY sportsbook, timestamp DESC
	`

	rows, err := r.pool.Query(ctx, query, fightID)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ActiveFightIDs lists fights with at least one snapshot inside the window.
func (r *OddsRepository) ActiveFightIDs(ctx context.Context, window time.Duration) ([]string, error) {
	query := `
		SELECT DISTINCT fight_id
		FROM odds_snapshots
		WHERE timestamp >= $1
		ORDER BY fight_id
	`

	rows, err := r.pool.Query(ctx, query, time.Now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("failed to query active fights: %w", err)
	}
	defer rows.Close()

	var fightIDs []string
	for rows.Next() {
		var fightID string
		if err := rows.Scan(&fightID); err != nil {
			return nil, fmt.Errorf("failed to scan fight id: %w", err)
		}
		fightIDs = append(fightIDs, fightID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fight ids: %w", err)
	}

	return fightIDs, nil
}

// StoreOpportunity upserts one detected arbitrage opportunity.
func (r *OddsRepository) StoreOpportunity(ctx context.Context, opp *models.ArbitrageOpportunity) error {
	query := `
		INSERT INTO arbitrage_opportunities (
			id, fight_id, book_a, book_b, profit_percent, stake_a, stake_b, detected_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			profit_percent = EXCLUDED.profit_percent,
			stake_a = EXCLUDED.stake_a,
			stake_b = EXCLUDED.stake_b,
			detected_at = EXCLUDED.detected_at,
			expires_at = EXCLUDED.expires_at
	`

	bookA := opp.Sportsbooks[0]
	bookB := opp.Sportsbooks[1]
	_, err := r.pool.Exec(ctx, query,
		opp.ID, opp.FightID, bookA, bookB,
		opp.ProfitPercent, opp.Stakes[bookA], opp.Stakes[bookB],
		opp.DetectedAt, opp.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store arbitrage opportunity: %w", err)
	}

	return nil
}

// GetActiveOpportunities returns unexpired opportunities, most profitable
// first.
func (r *OddsRepository) GetActiveOpportunities(ctx context.Context, limit int) ([]models.ArbitrageOpportunity, error) {
	query := `
		SELECT id, fight_id, book_a, book_b, profit_percent, stake_a, stake_b, detected_at, expires_at
		FROM arbitrage_opportunities
		WHERE expires_at > NOW()
		ORDER BY profit_percent DESC, detected_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active opportunities: %w", err)
	}
	defer rows.Close()

	var opportunities []models.ArbitrageOpportunity
	for rows.Next() {
		var opp models.ArbitrageOpportunity
		var bookA, bookB string
		var stakeA, stakeB decimal.Decimal

		err := rows.Scan(
			&opp.ID, &opp.FightID, &bookA, &bookB,
			&opp.ProfitPercent, &stakeA, &stakeB,
			&opp.DetectedAt, &opp.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}

		opp.Sportsbooks = [2]string{bookA, bookB}
		opp.Stakes = map[string]decimal.Decimal{bookA: stakeA}
		if bookB != bookA {
			opp.Stakes[bookB] = stakeB
		}
		opportunities = append(opportunities, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating opportunity rows: %w", err)
	}

	return opportunities, nil
}

// DeleteExpiredOpportunities removes opportunities whose window has closed.
func (r *OddsRepository) DeleteExpiredOpportunities(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM arbitrage_opportunities WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired opportunities: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSnapshotsBefore removes snapshots older than the cutoff.
func (r *OddsRepository) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM odds_snapshots WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanSnapshots(rows pgx.Rows) ([]models.OddsSnapshot, error) {
	var snapshots []models.OddsSnapshot
	for rows.Next() {
		var snap models.OddsSnapshot
		var methodKO, methodSub, methodDec *int
		var roundsLine *float64
		var roundsOver, roundsUnder *int

		err := rows.Scan(
			&snap.ID, &snap.FightID, &snap.Sportsbook,
			&snap.Moneyline[models.SideA], &snap.Moneyline[models.SideB],
			&methodKO, &methodSub, &methodDec,
			&roundsLine, &roundsOver, &roundsUnder,
			&snap.Volume, &snap.Timestamp, &snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		if methodKO != nil && methodSub != nil && methodDec != nil {
			snap.Method = &models.MethodOdds{KO: *methodKO, Submission: *methodSub, Decision: *methodDec}
		}
		if roundsLine != nil && roundsOver != nil && roundsUnder != nil {
			snap.Rounds = &models.RoundsOdds{Line: *roundsLine, Over: *roundsOver, Under: *roundsUnder}
		}

		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}

	return snapshots, nil
}
