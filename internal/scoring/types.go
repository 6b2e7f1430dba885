package scoring

import "errors"

// ErrInvalidScore is returned when a set's game counts cannot be a final tennis score.
var ErrInvalidScore = errors.New("invalid set score")

// Side identifies which side of a court took a set.
type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "none"
	}
}

// SetKind distinguishes a regular set from a deciding match tiebreak played in place of a third set.
type SetKind string

const (
	SetKindRegular       SetKind = "REGULAR"
	SetKindMatchTiebreak SetKind = "MATCH_TIEBREAK"
)

// SetScore is one set's result from the home team's point of view.
type SetScore struct {
	HomeGames  int     `json:"home_games" msgpack:"home_games"`
	AwayGames  int     `json:"away_games" msgpack:"away_games"`
	IsTiebreak bool    `json:"is_tiebreak" msgpack:"is_tiebreak"`
	Kind       SetKind `json:"kind,omitempty" msgpack:"kind,omitempty"`
	// Tiebreak points, only recorded for sets decided 7-6.
	TiebreakHome *int `json:"tiebreak_home,omitempty" msgpack:"tiebreak_home,omitempty"`
	TiebreakAway *int `json:"tiebreak_away,omitempty" msgpack:"tiebreak_away,omitempty"`
}

// IsMatchTiebreak reports whether the set is a deciding match tiebreak.
func (s SetScore) IsMatchTiebreak() bool {
	return s.Kind == SetKindMatchTiebreak
}

// HasTiebreakPoints reports whether both tiebreak point counts were recorded.
func (s SetScore) HasTiebreakPoints() bool {
	return s.TiebreakHome != nil && s.TiebreakAway != nil
}

// CourtResult holds the sets played on one court and whether the home pair took it.
type CourtResult struct {
	CourtNumber int        `json:"court_number" msgpack:"court_number"`
	Sets        []SetScore `json:"sets" msgpack:"sets"`
	Won         bool       `json:"won" msgpack:"won"`
}

// Outcome is the result of a whole match for the home team.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomeTie  Outcome = "TIE"
)

// MatchResult is the aggregated outcome of a match across its courts.
type MatchResult struct {
	Outcome      Outcome `json:"outcome" msgpack:"outcome"`
	ScoreSummary string  `json:"score_summary" msgpack:"score_summary"`
	CourtsWon    int     `json:"courts_won" msgpack:"courts_won"`
	CourtsLost   int     `json:"courts_lost" msgpack:"courts_lost"`
}
