package lineup_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id string, fairPlay float64, status lineup.Availability) lineup.PlayerRef {
	return lineup.PlayerRef{ID: id, FullName: "Player " + id, FairPlayScore: fairPlay, Availability: status}
}

func pool(n int) []lineup.PlayerRef {
	players := make([]lineup.PlayerRef, n)
	for i := range players {
		players[i] = player(fmt.Sprintf("p%02d", i), float64(50+i), lineup.AvailabilityAvailable)
	}
	return players
}

func suggestion(a, b string, score float64) lineup.PairSuggestion {
	return lineup.PairSuggestion{
		Player1: lineup.PlayerRef{ID: a},
		Player2: lineup.PlayerRef{ID: b},
		Score:   score,
	}
}

func assertDisjoint(t *testing.T, selected []lineup.PairSuggestion) {
	t.Helper()
	seen := make(map[string]bool)
	for _, s := range selected {
		for _, id := range []string{s.Player1.ID, s.Player2.ID} {
			assert.False(t, seen[id], "player %s placed twice", id)
			seen[id] = true
		}
	}
}

type failingReader struct{}

func (failingReader) Get(context.Context, string, string, string) (*pairstats.PairStatistic, error) {
	return nil, errors.New("connection refused")
}

func TestParseAvailability(t *testing.T) {
	a, err := lineup.ParseAvailability(" maybe ")
	require.NoError(t, err)
	assert.Equal(t, lineup.AvailabilityMaybe, a)

	_, err = lineup.ParseAvailability("perhaps")
	assert.Error(t, err)
}

func TestEligible(t *testing.T) {
	players := []lineup.PlayerRef{
		player("a", 50, lineup.AvailabilityAvailable),
		player("b", 50, lineup.AvailabilityUnavailable),
		player("c", 50, lineup.AvailabilityMaybe),
		player("d", 50, lineup.AvailabilityLate),
		player("e", 50, ""),
		player("a", 50, lineup.AvailabilityAvailable),
	}

	eligible := lineup.Eligible(players)
	ids := make([]string, len(eligible))
	for i, p := range eligible {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)
}

func TestCandidates(t *testing.T) {
	for n := 0; n <= 7; n++ {
		t.Run(fmt.Sprintf("%d players", n), func(t *testing.T) {
			candidates := lineup.Candidates(pool(n))
			assert.Len(t, candidates, n*(n-1)/2)

			seen := make(map[string]bool)
			for _, c := range candidates {
				assert.NotEqual(t, c.A.ID, c.B.ID)
				assert.Less(t, c.A.ID, c.B.ID, "pool order is kept")
				key := c.A.ID + "/" + c.B.ID
				assert.False(t, seen[key], "pair %s listed twice", key)
				seen[key] = true
			}
		})
	}

	candidates := lineup.Candidates(pool(3))
	assert.Equal(t, "p00", candidates[0].A.ID)
	assert.Equal(t, "p01", candidates[0].B.ID)
	assert.Equal(t, "p02", candidates[2].B.ID)
}

func TestScorePair(t *testing.T) {
	a := player("a", 80, lineup.AvailabilityAvailable)
	b := player("b", 60, lineup.AvailabilityAvailable)

	t.Run("unknown pair starts neutral", func(t *testing.T) {
		s := lineup.ScorePair(a, b, nil)
		assert.InDelta(t, 50*0.4+50*0.3+70*0.3, s.Score, 1e-9)
		assert.Equal(t, 50.0, s.WinPct)
		assert.Equal(t, 50.0, s.GamesPct)
		assert.Equal(t, 70.0, s.FairPlay)
	})

	t.Run("zero matches together starts neutral", func(t *testing.T) {
		s := lineup.ScorePair(a, b, &pairstats.PairStatistic{})
		assert.InDelta(t, 50*0.4+50*0.3+70*0.3, s.Score, 1e-9)
	})

	t.Run("history is weighted", func(t *testing.T) {
		stat := &pairstats.PairStatistic{MatchesTogether: 4, Wins: 3, TotalGamesWon: 40, TotalGamesPlayed: 64}
		s := lineup.ScorePair(a, b, stat)
		assert.InDelta(t, 75.0, s.WinPct, 1e-9)
		assert.InDelta(t, 62.5, s.GamesPct, 1e-9)
		assert.InDelta(t, 75*0.4+62.5*0.3+70*0.3, s.Score, 1e-9)
	})

	t.Run("pure", func(t *testing.T) {
		stat := &pairstats.PairStatistic{MatchesTogether: 2, Wins: 1, TotalGamesWon: 20, TotalGamesPlayed: 37}
		assert.Equal(t, lineup.ScorePair(a, b, stat), lineup.ScorePair(a, b, stat))
	})
}

func TestGreedySelect(t *testing.T) {
	scored := []lineup.PairSuggestion{
		suggestion("a", "b", 90),
		suggestion("a", "c", 85),
		suggestion("b", "d", 85),
		suggestion("c", "d", 10),
		suggestion("e", "f", 50),
	}

	selected := lineup.Greedy{}.Select(scored, 3)
	require.Len(t, selected, 3)
	assertDisjoint(t, selected)
	assert.Equal(t, 90.0, selected[0].Score)
	assert.Equal(t, 50.0, selected[1].Score)
	assert.Equal(t, 10.0, selected[2].Score)

	assert.Len(t, lineup.Greedy{}.Select(scored, 1), 1)
	assert.Empty(t, lineup.Greedy{}.Select(scored, 0))
	assert.Empty(t, lineup.Greedy{}.Select(nil, 3))
	assert.Equal(t, 90.0, scored[0].Score, "input order is untouched")
}

func TestGreedySelect_TiesKeepCandidateOrder(t *testing.T) {
	scored := []lineup.PairSuggestion{
		suggestion("a", "b", 60),
		suggestion("c", "d", 60),
		suggestion("a", "c", 60),
	}
	selected := lineup.Greedy{}.Select(scored, 2)
	require.Len(t, selected, 2)
	assert.Equal(t, "a", selected[0].Player1.ID)
	assert.Equal(t, "c", selected[1].Player1.ID)
}

func TestExactSelect_BeatsGreedyTrap(t *testing.T) {
	scored := []lineup.PairSuggestion{
		suggestion("a", "b", 90),
		suggestion("a", "c", 85),
		suggestion("b", "d", 85),
		suggestion("c", "d", 10),
	}

	greedy := lineup.Greedy{}.Select(scored, 2)
	exact := lineup.Exact{}.Select(scored, 2)

	assert.InDelta(t, 100.0, lineup.TotalScore(greedy), 1e-9)
	assert.InDelta(t, 170.0, lineup.TotalScore(exact), 1e-9)
	assertDisjoint(t, exact)
	require.Len(t, exact, 2)
	assert.GreaterOrEqual(t, exact[0].Score, exact[1].Score)
}

func TestExactSelect_NeverWorseThanGreedy(t *testing.T) {
	players := pool(8)
	var scored []lineup.PairSuggestion
	for i, c := range lineup.Candidates(players) {
		// Deterministic, uneven scores.
		score := float64((i*37)%101) + float64(i%7)/10
		scored = append(scored, suggestion(c.A.ID, c.B.ID, score))
	}

	for courts := 1; courts <= 5; courts++ {
		greedy := lineup.Greedy{}.Select(scored, courts)
		exact := lineup.Exact{}.Select(scored, courts)
		assertDisjoint(t, exact)
		assert.LessOrEqual(t, len(exact), courts)
		assert.GreaterOrEqual(t, lineup.TotalScore(exact)+1e-9, lineup.TotalScore(greedy), "courts=%d", courts)
	}
}

func TestExactSelect_FillsCourtsOnZeroScores(t *testing.T) {
	scored := []lineup.PairSuggestion{
		suggestion("a", "b", 0),
		suggestion("c", "d", 0),
	}
	assert.Len(t, lineup.Exact{}.Select(scored, 2), 2)
}

func TestParseStrategy(t *testing.T) {
	s, err := lineup.ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, "greedy", s.Name())

	s, err = lineup.ParseStrategy("EXACT")
	require.NoError(t, err)
	assert.Equal(t, "exact", s.Name())

	_, err = lineup.ParseStrategy("hungarian")
	assert.Error(t, err)
}

func TestEngineSuggest_PoolSizes(t *testing.T) {
	ctx := context.Background()
	engine := lineup.NewEngine(pairstats.NewMemoryStore(), nil, metrics.NewMock())

	tests := []struct {
		name   string
		pool   []lineup.PlayerRef
		courts int
		want   int
	}{
		{"empty pool", nil, 3, 0},
		{"single player", pool(1), 3, 0},
		{"two players three courts", pool(2), 3, 1},
		{"five players three courts", pool(5), 3, 2},
		{"ten players default courts", pool(10), 0, lineup.DefaultCourts},
		{"ten players four courts", pool(10), 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := engine.Suggest(ctx, "team1", tt.pool, tt.courts)
			require.NoError(t, err)
			require.NotNil(t, selected)
			assert.Len(t, selected, tt.want)
			assertDisjoint(t, selected)
			for i, s := range selected {
				assert.Equal(t, i+1, s.Court)
			}
		})
	}
}

func TestEngineSuggest_UnavailablePlayersExcluded(t *testing.T) {
	ctx := context.Background()
	engine := lineup.NewEngine(pairstats.NewMemoryStore(), nil, nil)

	players := []lineup.PlayerRef{
		player("a", 90, lineup.AvailabilityUnavailable),
		player("b", 90, lineup.AvailabilityUnavailable),
		player("c", 40, lineup.AvailabilityLate),
	}
	selected, err := engine.Suggest(ctx, "team1", players, 3)
	require.NoError(t, err)
	assert.Empty(t, selected)

	players = append(players, player("d", 40, lineup.AvailabilityMaybe))
	selected, err = engine.Suggest(ctx, "team1", players, 3)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "c", selected[0].Player1.ID)
	assert.Equal(t, "d", selected[0].Player2.ID)
}

func TestEngineSuggest_UsesHistoryAndIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := pairstats.NewMemoryStore()
	require.NoError(t, store.Increment(ctx, "team1", "p03", "p00", true, 12, 14))
	require.NoError(t, store.Increment(ctx, "team1", "p00", "p03", true, 12, 15))

	m := metrics.NewMock()
	engine := lineup.NewEngine(store, nil, m)
	players := pool(4)

	first, err := engine.Suggest(ctx, "team1", players, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "p00", first[0].Player1.ID)
	assert.Equal(t, "p03", first[0].Player2.ID)
	assert.Equal(t, 100.0, first[0].WinPct)
	assertDisjoint(t, first)

	second, err := engine.Suggest(ctx, "team1", players, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, m.LineupsSuggested("greedy"))
	assert.Len(t, m.LineupDurations(), 2)

	other, err := engine.Suggest(ctx, "team2", players, 2)
	require.NoError(t, err)
	assert.Equal(t, 50.0, other[0].WinPct, "history belongs to team1 only")
}

func TestEngineSuggestWith_Exact(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewMock()
	engine := lineup.NewEngine(pairstats.NewMemoryStore(), lineup.Greedy{}, m)

	selected, err := engine.SuggestWith(ctx, lineup.Exact{}, "team1", pool(6), 3)
	require.NoError(t, err)
	assert.Len(t, selected, 3)
	assertDisjoint(t, selected)
	assert.Equal(t, 1, m.LineupsSuggested("exact"))
}

func TestEngineSuggest_StoreErrorPropagates(t *testing.T) {
	engine := lineup.NewEngine(failingReader{}, nil, nil)
	_, err := engine.Suggest(context.Background(), "team1", pool(4), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
