package pairstats

import "context"

// Reader is the read side used by the lineup engine.
type Reader interface {
	// Get returns the pair's record, or nil with no error when the pair has never played together.
	Get(ctx context.Context, teamID, playerA, playerB string) (*PairStatistic, error)
}

// Store accumulates pair statistics per team. Implementations normalize the
// player order, so Get(a, b) and Get(b, a) see the same record.
type Store interface {
	Reader
	// Increment adds one match to the pair's record.
	Increment(ctx context.Context, teamID, playerA, playerB string, won bool, gamesWon, gamesPlayed int) error
	// ListByTeam returns every recorded pair of a team.
	ListByTeam(ctx context.Context, teamID string) ([]PairStatistic, error)
}

// Apply adds one delta to the team's pair record.
func Apply(ctx context.Context, store Store, teamID string, d Delta) error {
	return store.Increment(ctx, teamID, d.PlayerA, d.PlayerB, d.Won, d.GamesWon, d.GamesPlayed)
}
