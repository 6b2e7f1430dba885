package lineup

// Eligible keeps the players whose status allows selection, in pool order.
// Unavailable players are always dropped, as are repeated IDs.
func Eligible(players []PlayerRef) []PlayerRef {
	seen := make(map[string]bool, len(players))
	eligible := make([]PlayerRef, 0, len(players))
	for _, p := range players {
		if !p.Availability.Selectable() || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		eligible = append(eligible, p)
	}
	return eligible
}

// Candidates enumerates every unordered pair once, in pool order:
// (0,1), (0,2), ..., (1,2), ...
func Candidates(players []PlayerRef) []Candidate {
	n := len(players)
	if n < 2 {
		return nil
	}
	candidates := make([]Candidate, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if players[i].ID == players[j].ID {
				continue
			}
			candidates = append(candidates, Candidate{A: players[i], B: players[j]})
		}
	}
	return candidates
}
