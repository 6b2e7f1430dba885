package scoring_test

import (
	"fmt"
	"testing"

	"github.com/mauv0809/courtside/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestValidateGames_Grid(t *testing.T) {
	valid := map[string]bool{}
	for _, s := range []string{"6-0", "6-1", "6-2", "6-3", "6-4", "7-5", "7-6"} {
		var h, a int
		_, err := fmt.Sscanf(s, "%d-%d", &h, &a)
		require.NoError(t, err)
		valid[fmt.Sprintf("%d-%d", h, a)] = true
		valid[fmt.Sprintf("%d-%d", a, h)] = true
	}

	for h := 0; h <= 7; h++ {
		for a := 0; a <= 7; a++ {
			key := fmt.Sprintf("%d-%d", h, a)
			assert.Equal(t, valid[key], scoring.ValidateGames(h, a), "score %s", key)
		}
	}
}

func TestValidateGames_OutOfRange(t *testing.T) {
	assert.False(t, scoring.ValidateGames(-1, 6))
	assert.False(t, scoring.ValidateGames(6, -2))
	assert.False(t, scoring.ValidateGames(8, 6))
	assert.False(t, scoring.ValidateGames(10, 8))
}

func TestValidateMatchTiebreak(t *testing.T) {
	tests := []struct {
		home, away int
		want       bool
	}{
		{10, 8, true},
		{8, 10, true},
		{10, 0, true},
		{12, 10, true},
		{10, 9, false},
		{9, 7, false},
		{13, 10, false},
		{11, 9, true},
		{-1, 10, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%d", tt.home, tt.away), func(t *testing.T) {
			assert.Equal(t, tt.want, scoring.ValidateMatchTiebreak(tt.home, tt.away))
		})
	}
}

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name    string
		set     scoring.SetScore
		wantErr bool
	}{
		{"regular straight set", scoring.SetScore{HomeGames: 6, AwayGames: 3}, false},
		{"unfinished set", scoring.SetScore{HomeGames: 5, AwayGames: 4}, true},
		{"tiebreak flag on 6-4", scoring.SetScore{HomeGames: 6, AwayGames: 4, IsTiebreak: true}, true},
		{"tiebreak with points", scoring.SetScore{HomeGames: 7, AwayGames: 6, IsTiebreak: true, TiebreakHome: intPtr(7), TiebreakAway: intPtr(5)}, false},
		{"extended tiebreak", scoring.SetScore{HomeGames: 6, AwayGames: 7, TiebreakHome: intPtr(10), TiebreakAway: intPtr(12)}, false},
		{"tiebreak winner mismatch", scoring.SetScore{HomeGames: 7, AwayGames: 6, TiebreakHome: intPtr(3), TiebreakAway: intPtr(7)}, true},
		{"tiebreak margin too small", scoring.SetScore{HomeGames: 7, AwayGames: 6, TiebreakHome: intPtr(7), TiebreakAway: intPtr(6)}, true},
		{"tiebreak points on 7-5", scoring.SetScore{HomeGames: 7, AwayGames: 5, TiebreakHome: intPtr(7), TiebreakAway: intPtr(5)}, true},
		{"only one tiebreak count", scoring.SetScore{HomeGames: 7, AwayGames: 6, TiebreakHome: intPtr(7)}, true},
		{"match tiebreak", scoring.SetScore{HomeGames: 10, AwayGames: 8, Kind: scoring.SetKindMatchTiebreak}, false},
		{"match tiebreak too short", scoring.SetScore{HomeGames: 7, AwayGames: 5, Kind: scoring.SetKindMatchTiebreak}, true},
		{"10-8 as a regular set", scoring.SetScore{HomeGames: 10, AwayGames: 8}, true},
		{"explicit regular kind", scoring.SetScore{HomeGames: 6, AwayGames: 3, Kind: scoring.SetKindRegular}, false},
		{"unknown kind", scoring.SetScore{HomeGames: 6, AwayGames: 3, Kind: "FOO"}, true},
		{"lowercase kind", scoring.SetScore{HomeGames: 10, AwayGames: 8, Kind: "match_tiebreak"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scoring.ValidateSet(tt.set)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, scoring.ErrInvalidScore)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCourt(t *testing.T) {
	mtb := scoring.SetScore{HomeGames: 10, AwayGames: 7, Kind: scoring.SetKindMatchTiebreak}
	tests := []struct {
		name    string
		sets    []scoring.SetScore
		wantErr bool
	}{
		{"straight sets", []scoring.SetScore{{HomeGames: 6, AwayGames: 2}, {HomeGames: 6, AwayGames: 4}}, false},
		{"three sets", []scoring.SetScore{{HomeGames: 6, AwayGames: 2}, {HomeGames: 3, AwayGames: 6}, {HomeGames: 7, AwayGames: 5}}, false},
		{"match tiebreak at one set all", []scoring.SetScore{{HomeGames: 6, AwayGames: 2}, {HomeGames: 3, AwayGames: 6}, mtb}, false},
		{"in progress", []scoring.SetScore{{HomeGames: 6, AwayGames: 2}}, false},
		{"third set after 2-0", []scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 6, AwayGames: 0}, {HomeGames: 6, AwayGames: 0}}, true},
		{"third set after 0-2", []scoring.SetScore{{HomeGames: 1, AwayGames: 6}, {HomeGames: 2, AwayGames: 6}, {HomeGames: 6, AwayGames: 4}}, true},
		{"match tiebreak after 2-0", []scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 6, AwayGames: 0}, mtb}, true},
		{"match tiebreak at 1-0", []scoring.SetScore{{HomeGames: 6, AwayGames: 0}, mtb}, true},
		{"four sets", []scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 0, AwayGames: 6}, {HomeGames: 6, AwayGames: 5}, {HomeGames: 6, AwayGames: 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scoring.ValidateCourt(tt.sets)
			if tt.wantErr {
				assert.ErrorIs(t, err, scoring.ErrInvalidScore)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := scoring.Normalize(scoring.SetScore{HomeGames: 6, AwayGames: 7})
	assert.True(t, s.IsTiebreak)
	assert.Equal(t, scoring.SetKindRegular, s.Kind)

	s = scoring.Normalize(scoring.SetScore{HomeGames: 6, AwayGames: 2})
	assert.False(t, s.IsTiebreak)
}

func TestSetWinner(t *testing.T) {
	assert.Equal(t, scoring.SideHome, scoring.SetWinner(6, 4))
	assert.Equal(t, scoring.SideAway, scoring.SetWinner(4, 6))
	assert.Equal(t, scoring.SideNone, scoring.SetWinner(6, 5))
	assert.Equal(t, scoring.SideHome, scoring.SetWinner(7, 6))
	assert.Equal(t, scoring.SideAway, scoring.SetWinner(6, 7))
	assert.Equal(t, scoring.SideHome, scoring.SetWinner(7, 5))
	assert.Equal(t, scoring.SideNone, scoring.SetWinner(3, 2))
}

func TestSetScoreWinner_MatchTiebreak(t *testing.T) {
	mtb := scoring.SetScore{HomeGames: 8, AwayGames: 10, Kind: scoring.SetKindMatchTiebreak}
	assert.Equal(t, scoring.SideAway, mtb.Winner())

	mtb.AwayGames = 9
	assert.Equal(t, scoring.SideNone, mtb.Winner())
}

func TestCourtWinner(t *testing.T) {
	tests := []struct {
		name string
		sets []scoring.SetScore
		want bool
	}{
		{"three sets home", []scoring.SetScore{{HomeGames: 6, AwayGames: 4}, {HomeGames: 4, AwayGames: 6}, {HomeGames: 6, AwayGames: 3}}, true},
		{"straight sets away", []scoring.SetScore{{HomeGames: 2, AwayGames: 6}, {HomeGames: 5, AwayGames: 7}}, false},
		{"match tiebreak decider", []scoring.SetScore{{HomeGames: 6, AwayGames: 4}, {HomeGames: 4, AwayGames: 6}, {HomeGames: 10, AwayGames: 8, Kind: scoring.SetKindMatchTiebreak}}, true},
		{"even split", []scoring.SetScore{{HomeGames: 6, AwayGames: 4}, {HomeGames: 4, AwayGames: 6}}, false},
		{"no sets", nil, false},
		{"unfinished set ignored", []scoring.SetScore{{HomeGames: 6, AwayGames: 1}, {HomeGames: 3, AwayGames: 2}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoring.CourtWinner(tt.sets))
		})
	}
}

func TestCourtDecided(t *testing.T) {
	assert.True(t, scoring.CourtDecided([]scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 6, AwayGames: 0}}))
	assert.False(t, scoring.CourtDecided([]scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 0, AwayGames: 6}}))
	assert.False(t, scoring.CourtDecided([]scoring.SetScore{{HomeGames: 6, AwayGames: 0}, {HomeGames: 6, AwayGames: 5}}))
}

func TestMatchOutcome(t *testing.T) {
	courts := func(won ...bool) []scoring.CourtResult {
		out := make([]scoring.CourtResult, len(won))
		for i, w := range won {
			out[i] = scoring.CourtResult{CourtNumber: i + 1, Won: w}
		}
		return out
	}

	tests := []struct {
		name    string
		courts  []scoring.CourtResult
		outcome scoring.Outcome
		summary string
	}{
		{"win first and last", courts(true, false, true), scoring.OutcomeWin, "2-1"},
		{"win first two", courts(true, true, false), scoring.OutcomeWin, "2-1"},
		{"even courts tie", courts(true, false), scoring.OutcomeTie, "1-1"},
		{"loss", courts(false, false, true), scoring.OutcomeLoss, "1-2"},
		{"no courts", nil, scoring.OutcomeTie, "0-0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outcome, scoring.MatchOutcome(tt.courts))
			assert.Equal(t, tt.summary, scoring.ScoreSummary(tt.courts))

			res := scoring.Aggregate(tt.courts)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.summary, res.ScoreSummary)
		})
	}
}

func TestResolveCourts(t *testing.T) {
	in := []scoring.CourtResult{
		{CourtNumber: 1, Sets: []scoring.SetScore{{HomeGames: 6, AwayGames: 2}, {HomeGames: 6, AwayGames: 3}}},
		{CourtNumber: 2, Sets: []scoring.SetScore{{HomeGames: 2, AwayGames: 6}, {HomeGames: 3, AwayGames: 6}}},
	}
	out := scoring.ResolveCourts(in)
	require.Len(t, out, 2)
	assert.True(t, out[0].Won)
	assert.False(t, out[1].Won)
	assert.False(t, in[0].Won, "input must not be modified")
}

func TestFormatScoreDisplayWithTiebreak(t *testing.T) {
	sets := map[int]scoring.SetScore{
		3: {HomeGames: 7, AwayGames: 6, TiebreakHome: intPtr(7), TiebreakAway: intPtr(3)},
		1: {HomeGames: 6, AwayGames: 4},
		2: {HomeGames: 6, AwayGames: 7, TiebreakHome: intPtr(5), TiebreakAway: intPtr(7)},
	}
	assert.Equal(t, "6-4, 6-7(5), 7-6(3)", scoring.FormatScoreDisplayWithTiebreak(sets))

	noPoints := map[int]scoring.SetScore{1: {HomeGames: 7, AwayGames: 6, IsTiebreak: true}}
	assert.Equal(t, "7-6", scoring.FormatScoreDisplayWithTiebreak(noPoints))

	assert.Equal(t, "", scoring.FormatScoreDisplayWithTiebreak(nil))
}

func TestFormatScoreDisplay_MatchTiebreak(t *testing.T) {
	sets := []scoring.SetScore{
		{HomeGames: 6, AwayGames: 3},
		{HomeGames: 3, AwayGames: 6},
		{HomeGames: 10, AwayGames: 7, Kind: scoring.SetKindMatchTiebreak},
	}
	assert.Equal(t, "6-3, 3-6, [10-7]", scoring.FormatScoreDisplay(sets))
}
