package roster

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/courtside/internal/lineup"
)

// store handles all database operations for team rosters.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Team is a club team owning a roster.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Player is a roster member.
type Player struct {
	ID            string              `json:"id"`
	TeamID        string              `json:"team_id"`
	FullName      string              `json:"full_name"`
	NTRPRating    *float64            `json:"ntrp_rating,omitempty"`
	FairPlayScore float64             `json:"fair_play_score"`
	Availability  lineup.Availability `json:"availability"`
}

// Ref converts the roster entry into the lineup engine's view of a player.
func (p Player) Ref() lineup.PlayerRef {
	return lineup.PlayerRef{
		ID:            p.ID,
		FullName:      p.FullName,
		NTRPRating:    p.NTRPRating,
		FairPlayScore: p.FairPlayScore,
		Availability:  p.Availability,
	}
}

// Refs converts a roster slice.
func Refs(players []Player) []lineup.PlayerRef {
	refs := make([]lineup.PlayerRef, len(players))
	for i, p := range players {
		refs[i] = p.Ref()
	}
	return refs
}
