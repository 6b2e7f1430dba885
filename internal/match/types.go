package match

import (
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/scoring"
)

var (
	// ErrNotFound is returned for an unknown match ID.
	ErrNotFound = errors.New("match not found")
	// ErrMatchFinalized is returned when changing a match whose result is final.
	ErrMatchFinalized = errors.New("match is already finalized")
	// ErrTeamNotFound is returned when scheduling a match for an unknown team.
	ErrTeamNotFound = errors.New("team not found")
	// ErrPlayerOnAnotherCourt is returned when a lineup reuses a player already
	// placed on a different court of the same match.
	ErrPlayerOnAnotherCourt = errors.New("player already plays another court of this match")
	// ErrDeltasOutstanding is returned when completing a finalization while
	// some pair statistics are not applied yet.
	ErrDeltasOutstanding = errors.New("pair statistics not fully applied")
)

// ClaimTimeout is how long a claimed delta stays reserved before another
// finalization attempt may take it over.
const ClaimTimeout = 5 * time.Minute

// store handles database operations for matches and their scores.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ProcessingStatus tracks a match from scheduling to its final result.
type ProcessingStatus string

const (
	StatusScheduled     ProcessingStatus = "SCHEDULED"
	StatusScoresEntered ProcessingStatus = "SCORES_ENTERED"
	// StatusFinalizing holds a stored result whose pair statistics are still
	// being applied. Finalizing again resumes the remaining deltas.
	StatusFinalizing ProcessingStatus = "FINALIZING"
	StatusFinalized  ProcessingStatus = "FINALIZED"
)

// Locked reports whether the result is stored and the match no longer accepts edits.
func (s ProcessingStatus) Locked() bool {
	return s == StatusFinalizing || s == StatusFinalized
}

// DeltaState tracks one pending pair statistics increment.
type DeltaState string

const (
	DeltaPending DeltaState = "PENDING"
	DeltaClaimed DeltaState = "CLAIMED"
	DeltaApplied DeltaState = "APPLIED"
)

// PendingDelta is a pair statistics increment recorded with the match result.
type PendingDelta struct {
	Seq int
	pairstats.Delta
	State DeltaState
}

// SetEntry is a set score at its position on a court.
type SetEntry struct {
	SetNumber int `json:"set_number" msgpack:"set_number"`
	scoring.SetScore
}

// Court is one doubles court of a match: the home pair and the sets they played.
type Court struct {
	Number    int        `json:"number" msgpack:"number"`
	Player1ID string     `json:"player1_id,omitempty" msgpack:"player1_id,omitempty"`
	Player2ID string     `json:"player2_id,omitempty" msgpack:"player2_id,omitempty"`
	Sets      []SetEntry `json:"sets" msgpack:"sets"`
	Won       bool       `json:"won" msgpack:"won"`
}

// Scores returns the court's sets in set order.
func (c Court) Scores() []scoring.SetScore {
	entries := make([]SetEntry, len(c.Sets))
	copy(entries, c.Sets)
	sort.Slice(entries, func(i, j int) bool { return entries[i].SetNumber < entries[j].SetNumber })

	scores := make([]scoring.SetScore, len(entries))
	for i, e := range entries {
		scores[i] = e.SetScore
	}
	return scores
}

// ScoreMap returns the court's sets keyed by set number.
func (c Court) ScoreMap() map[int]scoring.SetScore {
	m := make(map[int]scoring.SetScore, len(c.Sets))
	for _, e := range c.Sets {
		m[e.SetNumber] = e.SetScore
	}
	return m
}

// HasLineup reports whether both home players of the court are known.
func (c Court) HasLineup() bool {
	return c.Player1ID != "" && c.Player2ID != ""
}

// Match is a team match against an opponent.
type Match struct {
	ID               string           `json:"id" msgpack:"id"`
	TeamID           string           `json:"team_id" msgpack:"team_id"`
	Opponent         string           `json:"opponent" msgpack:"opponent"`
	MatchDate        time.Time        `json:"match_date" msgpack:"match_date"`
	ProcessingStatus ProcessingStatus `json:"processing_status" msgpack:"processing_status"`
	Outcome          scoring.Outcome  `json:"outcome,omitempty" msgpack:"outcome,omitempty"`
	ScoreSummary     string           `json:"score_summary,omitempty" msgpack:"score_summary,omitempty"`
	Courts           []Court          `json:"courts" msgpack:"courts"`
	CreatedAt        time.Time        `json:"created_at" msgpack:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" msgpack:"updated_at"`
}

// CourtResults converts the courts into the scoring package's view.
func (m *Match) CourtResults() []scoring.CourtResult {
	results := make([]scoring.CourtResult, len(m.Courts))
	for i, c := range m.Courts {
		results[i] = scoring.CourtResult{
			CourtNumber: c.Number,
			Sets:        c.Scores(),
			Won:         c.Won,
		}
	}
	return results
}
