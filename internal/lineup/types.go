package lineup

import (
	"fmt"
	"strings"
)

// Availability is a player's answer for a match.
type Availability string

const (
	AvailabilityAvailable   Availability = "AVAILABLE"
	AvailabilityUnavailable Availability = "UNAVAILABLE"
	AvailabilityMaybe       Availability = "MAYBE"
	AvailabilityLate        Availability = "LATE"
)

// ParseAvailability accepts the status case-insensitively.
func ParseAvailability(s string) (Availability, error) {
	switch a := Availability(strings.ToUpper(strings.TrimSpace(s))); a {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityMaybe, AvailabilityLate:
		return a, nil
	}
	return "", fmt.Errorf("unknown availability status %q", s)
}

// Selectable reports whether a player with this status may be put in a lineup.
func (a Availability) Selectable() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityMaybe, AvailabilityLate:
		return true
	}
	return false
}

// PlayerRef is a roster member as seen by the lineup engine.
type PlayerRef struct {
	ID            string       `json:"id"`
	FullName      string       `json:"full_name"`
	NTRPRating    *float64     `json:"ntrp_rating,omitempty"`
	FairPlayScore float64      `json:"fair_play_score"`
	Availability  Availability `json:"availability"`
}

// Candidate is an unordered pair of players that could share a court.
type Candidate struct {
	A PlayerRef
	B PlayerRef
}

// PairSuggestion is a scored pair, ready to be placed on a court.
type PairSuggestion struct {
	Court    int       `json:"court,omitempty"`
	Player1  PlayerRef `json:"player1"`
	Player2  PlayerRef `json:"player2"`
	Score    float64   `json:"score"`
	WinPct   float64   `json:"win_pct"`
	GamesPct float64   `json:"games_pct"`
	FairPlay float64   `json:"fair_play"`
}
