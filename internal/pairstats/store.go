package pairstats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// store keeps pair statistics in the pair_stats table.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// Get retrieves the record of one pair.
func (s *store) Get(ctx context.Context, teamID, playerA, playerB string) (*PairStatistic, error) {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stat := PairStatistic{PairKey: key}
	err = s.db.QueryRowContext(ctx, `
		SELECT matches_together, wins, total_games_won, total_games_played
		FROM pair_stats
		WHERE team_id = ? AND player1_id = ? AND player2_id = ?
	`, key.TeamID, key.Player1ID, key.Player2ID).Scan(
		&stat.MatchesTogether,
		&stat.Wins,
		&stat.TotalGamesWon,
		&stat.TotalGamesPlayed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pair stats for %s: %w", key, err)
	}
	return &stat, nil
}

// Increment upserts the pair row, adding to the existing counters on conflict.
func (s *store) Increment(ctx context.Context, teamID, playerA, playerB string, won bool, gamesWon, gamesPlayed int) error {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return err
	}
	if err := validateDelta(gamesWon, gamesPlayed); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pair_stats (team_id, player1_id, player2_id, matches_together, wins, total_games_won, total_games_played)
		VALUES (?, ?, ?, 1, ?, ?, ?)
		ON CONFLICT(team_id, player1_id, player2_id) DO UPDATE SET
			matches_together = matches_together + excluded.matches_together,
			wins = wins + excluded.wins,
			total_games_won = total_games_won + excluded.total_games_won,
			total_games_played = total_games_played + excluded.total_games_played;
	`, key.TeamID, key.Player1ID, key.Player2ID, boolToInt(won), gamesWon, gamesPlayed)
	if err != nil {
		return fmt.Errorf("failed to increment pair stats for %s: %w", key, err)
	}

	log.Debug("Incremented pair stats", "pair", key.String(), "won", won, "games_won", gamesWon, "games_played", gamesPlayed)
	return nil
}

// ListByTeam returns all pairs of a team ordered by player IDs.
func (s *store) ListByTeam(ctx context.Context, teamID string) ([]PairStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, player1_id, player2_id, matches_together, wins, total_games_won, total_games_played
		FROM pair_stats
		WHERE team_id = ?
		ORDER BY player1_id, player2_id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair stats: %w", err)
	}
	defer rows.Close()

	var stats []PairStatistic
	for rows.Next() {
		var stat PairStatistic
		if err := rows.Scan(
			&stat.TeamID,
			&stat.Player1ID,
			&stat.Player2ID,
			&stat.MatchesTogether,
			&stat.Wins,
			&stat.TotalGamesWon,
			&stat.TotalGamesPlayed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pair stats row: %w", err)
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
