package processor

import (
	"errors"
	"time"

	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/roster"
	"github.com/mauv0809/courtside/internal/scoring"
)

var (
	// ErrMatchIncomplete is returned when finalizing a match with an undecided court.
	ErrMatchIncomplete = errors.New("match has undecided courts")
	// ErrAlreadyFinalized is returned when a match result was already counted.
	ErrAlreadyFinalized = errors.New("match already finalized")
)

// Processor handles the business logic of scoring and finalizing matches.
type Processor struct {
	matches match.MatchStore
	roster  roster.RosterStore
	stats   pairstats.Store
	engine  *lineup.Engine
	pubsub  pubsub.PubSubClient
	metrics metrics.Metrics
}

// LineupRequest selects the pool for a lineup suggestion. With a MatchID the
// pool uses the players' answers for that match, otherwise the team roster.
type LineupRequest struct {
	TeamID   string
	MatchID  string
	Courts   int
	Strategy string
}

// MatchFinalizedEvent is published once per finalized match.
type MatchFinalizedEvent struct {
	MatchID      string            `msgpack:"match_id"`
	TeamID       string            `msgpack:"team_id"`
	Opponent     string            `msgpack:"opponent"`
	Outcome      scoring.Outcome   `msgpack:"outcome"`
	ScoreSummary string            `msgpack:"score_summary"`
	Courts       []CourtSummary    `msgpack:"courts"`
	Deltas       []pairstats.Delta `msgpack:"deltas"`
	FinalizedAt  time.Time         `msgpack:"finalized_at"`
}

// CourtSummary is a court as shown in the finalized event.
type CourtSummary struct {
	Number  int    `msgpack:"number"`
	Won     bool   `msgpack:"won"`
	Display string `msgpack:"display"`
}
