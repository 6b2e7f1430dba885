package roster

import (
	"context"

	"github.com/mauv0809/courtside/internal/lineup"
)

// RosterStore defines the interface for interacting with team rosters.
type RosterStore interface {
	UpsertTeam(ctx context.Context, team Team) error
	UpsertPlayer(ctx context.Context, player Player) error
	GetPlayer(ctx context.Context, playerID string) (*Player, error)
	GetTeamPlayers(ctx context.Context, teamID string) ([]Player, error)
	SetAvailability(ctx context.Context, playerID string, status lineup.Availability) error
	SetMatchAvailability(ctx context.Context, matchID, playerID string, status lineup.Availability) error
	// GetMatchPool returns the team's players with their answer for the match,
	// falling back to the roster status when the player has not answered.
	GetMatchPool(ctx context.Context, teamID, matchID string) ([]lineup.PlayerRef, error)
}
