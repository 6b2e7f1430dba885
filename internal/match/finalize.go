package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/scoring"
)

// BeginFinalize stores the result, records the pair deltas as pending and
// moves the match to FINALIZING, all in one transaction. Only a SCHEDULED or
// SCORES_ENTERED match can begin, so concurrent callers cannot both succeed.
func (s *store) BeginFinalize(ctx context.Context, matchID string, result scoring.MatchResult, deltas []pairstats.Delta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE matches
		SET outcome = ?, score_summary = ?, processing_status = ?, updated_at = ?
		WHERE id = ? AND processing_status IN (?, ?)
	`, string(result.Outcome), result.ScoreSummary, string(StatusFinalizing), time.Now().Unix(),
		matchID, string(StatusScheduled), string(StatusScoresEntered))
	if err != nil {
		return fmt.Errorf("failed to save match result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return statusConflict(ctx, tx, matchID)
	}

	for i, d := range deltas {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pending_pair_deltas (match_id, seq, player_a, player_b, won, games_won, games_played, state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, matchID, i+1, d.PlayerA, d.PlayerB, d.Won, d.GamesWon, d.GamesPlayed, string(DeltaPending))
		if err != nil {
			return fmt.Errorf("failed to record pending delta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match result: %w", err)
	}

	log.Info("Saved match result", "matchID", matchID, "outcome", result.Outcome, "summary", result.ScoreSummary, "deltas", len(deltas))
	return nil
}

// FinalizationDeltas lists the deltas recorded by BeginFinalize in order.
func (s *store) FinalizationDeltas(ctx context.Context, matchID string) ([]PendingDelta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, player_a, player_b, won, games_won, games_played, state
		FROM pending_pair_deltas
		WHERE match_id = ?
		ORDER BY seq
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending deltas: %w", err)
	}
	defer rows.Close()

	var deltas []PendingDelta
	for rows.Next() {
		var d PendingDelta
		var state string
		if err := rows.Scan(&d.Seq, &d.PlayerA, &d.PlayerB, &d.Won, &d.GamesWon, &d.GamesPlayed, &state); err != nil {
			return nil, fmt.Errorf("failed to scan pending delta: %w", err)
		}
		d.State = DeltaState(state)
		deltas = append(deltas, d)
	}
	return deltas, rows.Err()
}

// ClaimDelta reserves a pending delta for the caller. It returns false when
// the delta is applied or held by a claim younger than ClaimTimeout.
func (s *store) ClaimDelta(ctx context.Context, matchID string, seq int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_pair_deltas
		SET state = ?, claimed_at = ?
		WHERE match_id = ? AND seq = ?
			AND (state = ? OR (state = ? AND claimed_at < ?))
	`, string(DeltaClaimed), now.Unix(), matchID, seq,
		string(DeltaPending), string(DeltaClaimed), now.Add(-ClaimTimeout).Unix())
	if err != nil {
		return false, fmt.Errorf("failed to claim delta: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// SettleDelta ends a claim: applied deltas are done, the rest go back to pending.
func (s *store) SettleDelta(ctx context.Context, matchID string, seq int, applied bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := DeltaPending
	if applied {
		state = DeltaApplied
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE pending_pair_deltas
		SET state = ?, claimed_at = NULL
		WHERE match_id = ? AND seq = ? AND state = ?
	`, string(state), matchID, seq, string(DeltaClaimed))
	if err != nil {
		return fmt.Errorf("failed to settle delta: %w", err)
	}
	return nil
}

// CompleteFinalize moves a FINALIZING match to FINALIZED once every delta is
// applied.
func (s *store) CompleteFinalize(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var outstanding int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM pending_pair_deltas WHERE match_id = ? AND state != ?", matchID, string(DeltaApplied)).Scan(&outstanding)
	if err != nil {
		return fmt.Errorf("failed to count pending deltas: %w", err)
	}
	if outstanding > 0 {
		return fmt.Errorf("%w: %d left on match %s", ErrDeltasOutstanding, outstanding, matchID)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET processing_status = ?, updated_at = ?
		WHERE id = ? AND processing_status = ?
	`, string(StatusFinalized), time.Now().Unix(), matchID, string(StatusFinalizing))
	if err != nil {
		return fmt.Errorf("failed to complete finalization: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return statusConflict(ctx, tx, matchID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalization: %w", err)
	}

	log.Info("Completed match finalization", "matchID", matchID)
	return nil
}

// statusConflict explains why a status transition matched no row.
func statusConflict(ctx context.Context, tx *sql.Tx, matchID string) error {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT processing_status FROM matches WHERE id = ?", matchID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, matchID)
		}
		return fmt.Errorf("failed to check match status: %w", err)
	}
	if ProcessingStatus(status) == StatusFinalized {
		return fmt.Errorf("%w: %s", ErrMatchFinalized, matchID)
	}
	if ProcessingStatus(status) == StatusFinalizing {
		return fmt.Errorf("%w: %s is still applying pair statistics", ErrMatchFinalized, matchID)
	}
	return fmt.Errorf("match %s is %s, not %s", matchID, status, StatusFinalizing)
}
