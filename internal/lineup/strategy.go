package lineup

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// DefaultCourts is the number of doubles courts in a regular team match.
const DefaultCourts = 3

// MaxExactPlayers bounds the pool size the exact strategy searches; larger
// pools fall back to greedy selection.
const MaxExactPlayers = 16

// Strategy picks at most courts pairs from the scored candidates so that no
// player appears twice.
type Strategy interface {
	Name() string
	Select(scored []PairSuggestion, courts int) []PairSuggestion
}

// ParseStrategy resolves a strategy by name. An empty name selects greedy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "greedy":
		return Greedy{}, nil
	case "exact":
		return Exact{}, nil
	}
	return nil, fmt.Errorf("unknown lineup strategy %q", name)
}

// Greedy takes pairs in descending score order, skipping any pair that
// reuses an already placed player. It can miss the best total score.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Select(scored []PairSuggestion, courts int) []PairSuggestion {
	if courts <= 0 {
		return []PairSuggestion{}
	}
	ordered := make([]PairSuggestion, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	used := make(map[string]bool)
	selected := make([]PairSuggestion, 0, courts)
	for _, s := range ordered {
		if len(selected) == courts {
			break
		}
		if used[s.Player1.ID] || used[s.Player2.ID] {
			continue
		}
		used[s.Player1.ID] = true
		used[s.Player2.ID] = true
		selected = append(selected, s)
	}
	return selected
}

// Exact maximizes the total score of at most courts disjoint pairs.
type Exact struct{}

func (Exact) Name() string { return "exact" }

type exactChoice struct {
	total float64
	pair  int // index into the edge list, -1 to leave the player out
}

const scoreEpsilon = 1e-9

func (Exact) Select(scored []PairSuggestion, courts int) []PairSuggestion {
	if courts <= 0 {
		return []PairSuggestion{}
	}

	index := make(map[string]int)
	for _, s := range scored {
		for _, id := range []string{s.Player1.ID, s.Player2.ID} {
			if _, ok := index[id]; !ok {
				index[id] = len(index)
			}
		}
	}
	n := len(index)
	if n > MaxExactPlayers {
		return Greedy{}.Select(scored, courts)
	}
	if courts > n/2 {
		courts = n / 2
	}

	// edges[i][j] holds the best candidate index for players i<j.
	edges := make([][]int, n)
	for i := range edges {
		edges[i] = make([]int, n)
		for j := range edges[i] {
			edges[i][j] = -1
		}
	}
	for k, s := range scored {
		i, j := index[s.Player1.ID], index[s.Player2.ID]
		if i == j {
			continue
		}
		if j < i {
			i, j = j, i
		}
		if prev := edges[i][j]; prev == -1 || s.Score > scored[prev].Score {
			edges[i][j] = k
		}
	}

	full := uint32(1)<<uint(n) - 1
	memo := make(map[uint64]exactChoice)

	var solve func(mask uint32, remaining int) float64
	solve = func(mask uint32, remaining int) float64 {
		if mask == full || remaining == 0 {
			return 0
		}
		key := uint64(mask)<<8 | uint64(remaining)
		if c, ok := memo[key]; ok {
			return c.total
		}
		i := bits.TrailingZeros32(^mask)
		best := exactChoice{total: solve(mask|1<<uint(i), remaining), pair: -1}
		for j := i + 1; j < n; j++ {
			if mask&(1<<uint(j)) != 0 || edges[i][j] == -1 {
				continue
			}
			k := edges[i][j]
			total := scored[k].Score + solve(mask|1<<uint(i)|1<<uint(j), remaining-1)
			// On equal totals prefer filling a court over leaving the player out.
			if total > best.total+scoreEpsilon || (best.pair == -1 && total >= best.total-scoreEpsilon) {
				best = exactChoice{total: total, pair: k}
			}
		}
		memo[key] = best
		return best.total
	}
	solve(0, courts)

	selected := make([]PairSuggestion, 0, courts)
	mask, remaining := uint32(0), courts
	for mask != full && remaining > 0 {
		c, ok := memo[uint64(mask)<<8|uint64(remaining)]
		if !ok {
			break
		}
		i := bits.TrailingZeros32(^mask)
		if c.pair == -1 {
			mask |= 1 << uint(i)
			continue
		}
		s := scored[c.pair]
		selected = append(selected, s)
		mask |= 1<<uint(index[s.Player1.ID]) | 1<<uint(index[s.Player2.ID])
		remaining--
	}

	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].Score > selected[b].Score
	})
	return selected
}
