package match

import (
	"context"
	"time"

	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/scoring"
)

// MatchStore persists matches, court lineups and set scores.
type MatchStore interface {
	// CreateMatch schedules a new match for a team.
	CreateMatch(ctx context.Context, teamID, opponent string, date time.Time) (*Match, error)

	// GetMatch loads a match with all courts and sets.
	GetMatch(ctx context.Context, matchID string) (*Match, error)

	// ListMatches lists a team's matches, most recent first, without courts.
	ListMatches(ctx context.Context, teamID string) ([]Match, error)

	// SetCourtLineup records which two home players played a court.
	SetCourtLineup(ctx context.Context, matchID string, court int, player1ID, player2ID string) error

	// UpsertSetScore stores a set score. Scores must be validated by the caller.
	UpsertSetScore(ctx context.Context, matchID string, court, setNumber int, score scoring.SetScore) error

	// UpdateStatus moves a match between the pre-final states.
	UpdateStatus(ctx context.Context, matchID string, status ProcessingStatus) error

	// BeginFinalize stores the result with its pending pair deltas and moves
	// the match to FINALIZING. It fails with ErrMatchFinalized if the match is
	// already FINALIZING or FINALIZED.
	BeginFinalize(ctx context.Context, matchID string, result scoring.MatchResult, deltas []pairstats.Delta) error

	// FinalizationDeltas lists the deltas recorded by BeginFinalize.
	FinalizationDeltas(ctx context.Context, matchID string) ([]PendingDelta, error)

	// ClaimDelta reserves one pending delta. False means someone else holds
	// it or it is already applied.
	ClaimDelta(ctx context.Context, matchID string, seq int) (bool, error)

	// SettleDelta releases a claim, marking the delta applied or pending again.
	SettleDelta(ctx context.Context, matchID string, seq int, applied bool) error

	// CompleteFinalize marks a FINALIZING match FINALIZED. It fails with
	// ErrDeltasOutstanding while any delta is not applied.
	CompleteFinalize(ctx context.Context, matchID string) error
}
