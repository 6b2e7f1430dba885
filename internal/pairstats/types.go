package pairstats

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrSelfPair is returned when both sides of a pair are the same player.
	ErrSelfPair = errors.New("a player cannot be paired with themselves")
	// ErrInvalidDelta is returned for negative counts or more games won than played.
	ErrInvalidDelta = errors.New("invalid pair statistic delta")
)

// PairKey identifies an unordered pair of players within a team. Player1ID
// always sorts before Player2ID so that {a,b} and {b,a} share one key.
type PairKey struct {
	TeamID    string `json:"team_id"`
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
}

// NewPairKey normalizes the two player IDs into a PairKey.
func NewPairKey(teamID, a, b string) (PairKey, error) {
	if a == b {
		return PairKey{}, fmt.Errorf("%w: %s", ErrSelfPair, a)
	}
	if b < a {
		a, b = b, a
	}
	return PairKey{TeamID: teamID, Player1ID: a, Player2ID: b}, nil
}

// String encodes the key as team:player1:player2 with every ID escaped, so
// IDs containing ':' or '|' cannot produce the same key as other IDs.
func (k PairKey) String() string {
	return strings.Join([]string{escapeID(k.TeamID), escapeID(k.Player1ID), escapeID(k.Player2ID)}, ":")
}

func escapeID(id string) string {
	return url.QueryEscape(id)
}

func unescapeID(id string) (string, error) {
	return url.QueryUnescape(id)
}

// PairStatistic is the accumulated record of two players playing together.
type PairStatistic struct {
	PairKey
	MatchesTogether  int `json:"matches_together"`
	Wins             int `json:"wins"`
	TotalGamesWon    int `json:"total_games_won"`
	TotalGamesPlayed int `json:"total_games_played"`
}

// WinPercentage returns wins over matches as a percentage, or def when the pair has no matches.
func (s *PairStatistic) WinPercentage(def float64) float64 {
	if s == nil || s.MatchesTogether == 0 {
		return def
	}
	return float64(s.Wins) / float64(s.MatchesTogether) * 100
}

// GamesPercentage returns games won over games played as a percentage, or def when nothing was played.
func (s *PairStatistic) GamesPercentage(def float64) float64 {
	if s == nil || s.TotalGamesPlayed == 0 {
		return def
	}
	return float64(s.TotalGamesWon) / float64(s.TotalGamesPlayed) * 100
}

// Delta is one increment of a pair's record, produced when a match is finalized.
type Delta struct {
	PlayerA     string `json:"player_a" msgpack:"player_a"`
	PlayerB     string `json:"player_b" msgpack:"player_b"`
	Won         bool   `json:"won" msgpack:"won"`
	GamesWon    int    `json:"games_won" msgpack:"games_won"`
	GamesPlayed int    `json:"games_played" msgpack:"games_played"`
}

func validateDelta(gamesWon, gamesPlayed int) error {
	if gamesWon < 0 || gamesPlayed < 0 || gamesWon > gamesPlayed {
		return fmt.Errorf("%w: %d games won of %d played", ErrInvalidDelta, gamesWon, gamesPlayed)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
