package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/courtside/internal/scoring"
)

// New creates a new match store.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

// CreateMatch creates a new scheduled match for an existing team.
func (s *store) CreateMatch(ctx context.Context, teamID, opponent string, date time.Time) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m := &Match{
		ID:               uuid.New().String(),
		TeamID:           teamID,
		Opponent:         opponent,
		MatchDate:        date,
		ProcessingStatus: StatusScheduled,
		Courts:           []Court{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM teams WHERE id = ?)", teamID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check team: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, team_id, opponent, match_date, processing_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.TeamID,
		m.Opponent,
		m.MatchDate.Unix(),
		string(m.ProcessingStatus),
		m.CreatedAt.Unix(),
		m.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	log.Info("Created match", "id", m.ID, "team", teamID, "opponent", opponent)
	return m, nil
}

// GetMatch retrieves a match by ID with its courts and sets.
func (s *store) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, team_id, opponent, match_date, processing_status, outcome, score_summary, created_at, updated_at
		FROM matches
		WHERE id = ?
	`, matchID)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	courts, err := s.loadCourts(ctx, matchID)
	if err != nil {
		return nil, err
	}
	m.Courts = courts
	return m, nil
}

func (s *store) loadCourts(ctx context.Context, matchID string) ([]Court, error) {
	byNumber := make(map[int]*Court)
	court := func(n int) *Court {
		if c, ok := byNumber[n]; ok {
			return c
		}
		c := &Court{Number: n, Sets: []SetEntry{}}
		byNumber[n] = c
		return c
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT court_number, player1_id, player2_id
		FROM court_lineups
		WHERE match_id = ?
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query court lineups: %w", err)
	}
	for rows.Next() {
		var n int
		var p1, p2 string
		if err := rows.Scan(&n, &p1, &p2); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan court lineup row: %w", err)
		}
		c := court(n)
		c.Player1ID, c.Player2ID = p1, p2
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT court_number, set_number, home_games, away_games, is_tiebreak, kind, tiebreak_home, tiebreak_away
		FROM set_scores
		WHERE match_id = ?
		ORDER BY court_number, set_number
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query set scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n int
		var e SetEntry
		var kind string
		var tbHome, tbAway sql.NullInt64
		if err := rows.Scan(&n, &e.SetNumber, &e.HomeGames, &e.AwayGames, &e.IsTiebreak, &kind, &tbHome, &tbAway); err != nil {
			return nil, fmt.Errorf("failed to scan set score row: %w", err)
		}
		e.Kind = scoring.SetKind(kind)
		if tbHome.Valid && tbAway.Valid {
			h, a := int(tbHome.Int64), int(tbAway.Int64)
			e.TiebreakHome, e.TiebreakAway = &h, &a
		}
		c := court(n)
		c.Sets = append(c.Sets, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	courts := make([]Court, 0, len(byNumber))
	for _, c := range byNumber {
		c.Won = scoring.CourtWinner(c.Scores())
		courts = append(courts, *c)
	}
	sort.Slice(courts, func(i, j int) bool { return courts[i].Number < courts[j].Number })
	return courts, nil
}

// ListMatches lists a team's matches, most recent first.
func (s *store) ListMatches(ctx context.Context, teamID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, opponent, match_date, processing_status, outcome, score_summary, created_at, updated_at
		FROM matches
		WHERE team_id = ?
		ORDER BY match_date DESC, created_at DESC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

// SetCourtLineup records the home pair of a court.
func (s *store) SetCourtLineup(ctx context.Context, matchID string, court int, player1ID, player2ID string) error {
	if player1ID == player2ID {
		return fmt.Errorf("court %d needs two different players", court)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureEditable(ctx, tx, matchID); err != nil {
		return err
	}

	var otherCourt int
	err = tx.QueryRowContext(ctx, `
		SELECT court_number FROM court_lineups
		WHERE match_id = ? AND court_number != ?
			AND (player1_id IN (?, ?) OR player2_id IN (?, ?))
		ORDER BY court_number
		LIMIT 1
	`, matchID, court, player1ID, player2ID, player1ID, player2ID).Scan(&otherCourt)
	switch {
	case err == nil:
		return fmt.Errorf("%w: court %d already uses %s or %s", ErrPlayerOnAnotherCourt, otherCourt, player1ID, player2ID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to check other courts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO court_lineups (match_id, court_number, player1_id, player2_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id, court_number) DO UPDATE SET
			player1_id = excluded.player1_id,
			player2_id = excluded.player2_id;
	`, matchID, court, player1ID, player2ID)
	if err != nil {
		return fmt.Errorf("failed to set court lineup: %w", err)
	}
	if err := touch(ctx, tx, matchID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit court lineup: %w", err)
	}

	log.Info("Set court lineup", "matchID", matchID, "court", court, "player1", player1ID, "player2", player2ID)
	return nil
}

// UpsertSetScore stores or replaces a set score and moves a scheduled match to SCORES_ENTERED.
func (s *store) UpsertSetScore(ctx context.Context, matchID string, court, setNumber int, score scoring.SetScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureEditable(ctx, tx, matchID); err != nil {
		return err
	}

	score = scoring.Normalize(score)
	var tbHome, tbAway sql.NullInt64
	if score.HasTiebreakPoints() {
		tbHome = sql.NullInt64{Int64: int64(*score.TiebreakHome), Valid: true}
		tbAway = sql.NullInt64{Int64: int64(*score.TiebreakAway), Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO set_scores (match_id, court_number, set_number, home_games, away_games, is_tiebreak, kind, tiebreak_home, tiebreak_away)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id, court_number, set_number) DO UPDATE SET
			home_games = excluded.home_games,
			away_games = excluded.away_games,
			is_tiebreak = excluded.is_tiebreak,
			kind = excluded.kind,
			tiebreak_home = excluded.tiebreak_home,
			tiebreak_away = excluded.tiebreak_away;
	`, matchID, court, setNumber, score.HomeGames, score.AwayGames, score.IsTiebreak, string(score.Kind), tbHome, tbAway)
	if err != nil {
		return fmt.Errorf("failed to store set score: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE matches SET processing_status = ?, updated_at = ?
		WHERE id = ? AND processing_status = ?
	`, string(StatusScoresEntered), time.Now().Unix(), matchID, string(StatusScheduled))
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	if err := touch(ctx, tx, matchID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit set score: %w", err)
	}

	log.Info("Stored set score", "matchID", matchID, "court", court, "set", setNumber, "score", fmt.Sprintf("%d-%d", score.HomeGames, score.AwayGames))
	return nil
}

// UpdateStatus sets the processing status of a match that is not yet final.
func (s *store) UpdateStatus(ctx context.Context, matchID string, status ProcessingStatus) error {
	switch status {
	case StatusScheduled, StatusScoresEntered:
	case StatusFinalizing, StatusFinalized:
		return fmt.Errorf("status %s is set by BeginFinalize and CompleteFinalize", status)
	default:
		return fmt.Errorf("unknown processing status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensureEditable(ctx, tx, matchID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "UPDATE matches SET processing_status = ?, updated_at = ? WHERE id = ?", string(status), time.Now().Unix(), matchID)
	if err != nil {
		return fmt.Errorf("failed to update processing status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit processing status: %w", err)
	}

	log.Debug("Updated match status", "matchID", matchID, "status", status)
	return nil
}

func ensureEditable(ctx context.Context, tx *sql.Tx, matchID string) error {
	var status string
	err := tx.QueryRowContext(ctx, "SELECT processing_status FROM matches WHERE id = ?", matchID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrNotFound, matchID)
		}
		return fmt.Errorf("failed to check match status: %w", err)
	}
	if ProcessingStatus(status).Locked() {
		return fmt.Errorf("%w: %s", ErrMatchFinalized, matchID)
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, matchID string) error {
	if _, err := tx.ExecContext(ctx, "UPDATE matches SET updated_at = ? WHERE id = ?", time.Now().Unix(), matchID); err != nil {
		return fmt.Errorf("failed to touch match: %w", err)
	}
	return nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var matchDate, createdAt, updatedAt int64
	var status string
	var outcome, summary sql.NullString

	err := scanner.Scan(&m.ID, &m.TeamID, &m.Opponent, &matchDate, &status, &outcome, &summary, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.MatchDate = time.Unix(matchDate, 0)
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)
	m.ProcessingStatus = ProcessingStatus(status)
	m.Outcome = scoring.Outcome(outcome.String)
	m.ScoreSummary = summary.String
	m.Courts = []Court{}
	return &m, nil
}
