package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/lineup"
)

var (
	// ErrPlayerNotFound is returned when a player ID is not on any roster.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrInvalidPlayer is returned for roster entries that fail validation.
	ErrInvalidPlayer = errors.New("invalid player")
)

const (
	minFairPlay = 0
	maxFairPlay = 100
)

// New creates a new RosterStore.
func New(db *sql.DB) RosterStore {
	return &store{
		db: db,
	}
}

// UpsertTeam inserts a team or renames an existing one.
func (s *store) UpsertTeam(ctx context.Context, team Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name;
	`, team.ID, team.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.ID, err)
	}
	log.Debug("Upserted team", "teamID", team.ID, "name", team.Name)
	return nil
}

// UpsertPlayer inserts a roster member or updates all of its fields. The team
// is created on the fly if it does not exist yet.
func (s *store) UpsertPlayer(ctx context.Context, p Player) error {
	if p.ID == "" || p.TeamID == "" {
		return fmt.Errorf("%w: player id and team id are required", ErrInvalidPlayer)
	}
	if p.FairPlayScore < minFairPlay || p.FairPlayScore > maxFairPlay {
		return fmt.Errorf("%w: fair play score %.1f out of range [%d, %d]", ErrInvalidPlayer, p.FairPlayScore, minFairPlay, maxFairPlay)
	}
	if p.Availability == "" {
		p.Availability = lineup.AvailabilityAvailable
	}
	if _, err := lineup.ParseAvailability(string(p.Availability)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO teams (id, name) VALUES (?, ?)`, p.TeamID, p.TeamID); err != nil {
		return fmt.Errorf("failed to ensure team %s: %w", p.TeamID, err)
	}

	var rating sql.NullFloat64
	if p.NTRPRating != nil {
		rating = sql.NullFloat64{Float64: *p.NTRPRating, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, team_id, full_name, ntrp_rating, fair_play_score, availability_status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			full_name = excluded.full_name,
			ntrp_rating = excluded.ntrp_rating,
			fair_play_score = excluded.fair_play_score,
			availability_status = excluded.availability_status;
	`, p.ID, p.TeamID, p.FullName, rating, p.FairPlayScore, string(p.Availability))
	if err != nil {
		return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player upsert: %w", err)
	}
	log.Info("Upserted player", "playerID", p.ID, "team", p.TeamID, "name", p.FullName)
	return nil
}

// GetPlayer retrieves one roster member.
func (s *store) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, team_id, full_name, ntrp_rating, fair_play_score, availability_status
		FROM players WHERE id = ?
	`, playerID)
	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// GetTeamPlayers returns a team's roster ordered by name.
func (s *store) GetTeamPlayers(ctx context.Context, teamID string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, full_name, ntrp_rating, fair_play_score, availability_status
		FROM players
		WHERE team_id = ?
		ORDER BY full_name, id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// SetAvailability changes a player's standing roster status.
func (s *store) SetAvailability(ctx context.Context, playerID string, status lineup.Availability) error {
	if _, err := lineup.ParseAvailability(string(status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `UPDATE players SET availability_status = ? WHERE id = ?`, string(status), playerID)
	if err != nil {
		return fmt.Errorf("failed to update availability: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

// SetMatchAvailability records a player's answer for one match, replacing an earlier answer.
func (s *store) SetMatchAvailability(ctx context.Context, matchID, playerID string, status lineup.Availability) error {
	if _, err := lineup.ParseAvailability(string(status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_availability (match_id, player_id, status, responded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id, player_id) DO UPDATE SET
			status = excluded.status,
			responded_at = excluded.responded_at;
	`, matchID, playerID, string(status), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record match availability: %w", err)
	}

	log.Info("Recorded match availability", "matchID", matchID, "playerID", playerID, "status", status)
	return nil
}

// GetMatchPool returns the team's roster with per-match answers applied.
func (s *store) GetMatchPool(ctx context.Context, teamID, matchID string) ([]lineup.PlayerRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.team_id, p.full_name, p.ntrp_rating, p.fair_play_score,
			COALESCE(ma.status, p.availability_status)
		FROM players p
		LEFT JOIN match_availability ma ON ma.player_id = p.id AND ma.match_id = ?
		WHERE p.team_id = ?
		ORDER BY p.full_name, p.id
	`, matchID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match pool: %w", err)
	}
	defer rows.Close()

	var pool []lineup.PlayerRef
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match pool row: %w", err)
		}
		pool = append(pool, p.Ref())
	}
	return pool, rows.Err()
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var rating sql.NullFloat64
	var status string
	if err := scanner.Scan(&p.ID, &p.TeamID, &p.FullName, &rating, &p.FairPlayScore, &status); err != nil {
		return nil, err
	}
	if rating.Valid {
		r := rating.Float64
		p.NTRPRating = &r
	}
	p.Availability = lineup.Availability(status)
	return &p, nil
}
