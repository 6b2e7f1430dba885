package pairstats

import (
	"context"
	"sort"
	"sync"
)

// memoryStore keeps statistics in a map. It is safe for concurrent use.
type memoryStore struct {
	mu    sync.RWMutex
	stats map[PairKey]PairStatistic
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() Store {
	return &memoryStore{stats: make(map[PairKey]PairStatistic)}
}

func (s *memoryStore) Get(_ context.Context, teamID, playerA, playerB string) (*PairStatistic, error) {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.stats[key]
	if !ok {
		return nil, nil
	}
	return &stat, nil
}

func (s *memoryStore) Increment(_ context.Context, teamID, playerA, playerB string, won bool, gamesWon, gamesPlayed int) error {
	key, err := NewPairKey(teamID, playerA, playerB)
	if err != nil {
		return err
	}
	if err := validateDelta(gamesWon, gamesPlayed); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stat := s.stats[key]
	stat.PairKey = key
	stat.MatchesTogether++
	stat.Wins += boolToInt(won)
	stat.TotalGamesWon += gamesWon
	stat.TotalGamesPlayed += gamesPlayed
	s.stats[key] = stat
	return nil
}

func (s *memoryStore) ListByTeam(_ context.Context, teamID string) ([]PairStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []PairStatistic
	for key, stat := range s.stats {
		if key.TeamID == teamID {
			out = append(out, stat)
		}
	}
	sortStats(out)
	return out, nil
}

func sortStats(stats []PairStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Player1ID != stats[j].Player1ID {
			return stats[i].Player1ID < stats[j].Player1ID
		}
		return stats[i].Player2ID < stats[j].Player2ID
	})
}
