package match

import (
	"context"
	"sync"
	"time"

	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/scoring"
)

// MockStore is a mock implementation of MatchStore for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc    func(teamID, opponent string, date time.Time) (*Match, error)
	GetMatchFunc       func(matchID string) (*Match, error)
	ListMatchesFunc    func(teamID string) ([]Match, error)
	SetCourtLineupFunc func(matchID string, court int, player1ID, player2ID string) error
	UpsertSetScoreFunc func(matchID string, court, setNumber int, score scoring.SetScore) error
	UpdateStatusFunc   func(matchID string, status ProcessingStatus) error
	BeginFinalizeFunc      func(matchID string, result scoring.MatchResult, deltas []pairstats.Delta) error
	FinalizationDeltasFunc func(matchID string) ([]PendingDelta, error)
	ClaimDeltaFunc         func(matchID string, seq int) (bool, error)
	SettleDeltaFunc        func(matchID string, seq int, applied bool) error
	CompleteFinalizeFunc   func(matchID string) error

	// Call records
	SetCourtLineupCalls []struct {
		MatchID   string
		Court     int
		Player1ID string
		Player2ID string
	}
	UpsertSetScoreCalls []struct {
		MatchID   string
		Court     int
		SetNumber int
		Score     scoring.SetScore
	}
	BeginFinalizeCalls []struct {
		MatchID string
		Result  scoring.MatchResult
		Deltas  []pairstats.Delta
	}
	SettleDeltaCalls []struct {
		MatchID string
		Seq     int
		Applied bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateMatch(ctx context.Context, teamID, opponent string, date time.Time) (*Match, error) {
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(teamID, opponent, date)
	}
	return &Match{TeamID: teamID, Opponent: opponent, MatchDate: date, ProcessingStatus: StatusScheduled}, nil
}

func (m *MockStore) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListMatches(ctx context.Context, teamID string) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(teamID)
	}
	return nil, nil
}

func (m *MockStore) SetCourtLineup(ctx context.Context, matchID string, court int, player1ID, player2ID string) error {
	m.mu.Lock()
	m.SetCourtLineupCalls = append(m.SetCourtLineupCalls, struct {
		MatchID   string
		Court     int
		Player1ID string
		Player2ID string
	}{matchID, court, player1ID, player2ID})
	m.mu.Unlock()
	if m.SetCourtLineupFunc != nil {
		return m.SetCourtLineupFunc(matchID, court, player1ID, player2ID)
	}
	return nil
}

func (m *MockStore) UpsertSetScore(ctx context.Context, matchID string, court, setNumber int, score scoring.SetScore) error {
	m.mu.Lock()
	m.UpsertSetScoreCalls = append(m.UpsertSetScoreCalls, struct {
		MatchID   string
		Court     int
		SetNumber int
		Score     scoring.SetScore
	}{matchID, court, setNumber, score})
	m.mu.Unlock()
	if m.UpsertSetScoreFunc != nil {
		return m.UpsertSetScoreFunc(matchID, court, setNumber, score)
	}
	return nil
}

func (m *MockStore) UpdateStatus(ctx context.Context, matchID string, status ProcessingStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(matchID, status)
	}
	return nil
}

func (m *MockStore) BeginFinalize(ctx context.Context, matchID string, result scoring.MatchResult, deltas []pairstats.Delta) error {
	m.mu.Lock()
	m.BeginFinalizeCalls = append(m.BeginFinalizeCalls, struct {
		MatchID string
		Result  scoring.MatchResult
		Deltas  []pairstats.Delta
	}{matchID, result, deltas})
	m.mu.Unlock()
	if m.BeginFinalizeFunc != nil {
		return m.BeginFinalizeFunc(matchID, result, deltas)
	}
	return nil
}

func (m *MockStore) FinalizationDeltas(ctx context.Context, matchID string) ([]PendingDelta, error) {
	if m.FinalizationDeltasFunc != nil {
		return m.FinalizationDeltasFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) ClaimDelta(ctx context.Context, matchID string, seq int) (bool, error) {
	if m.ClaimDeltaFunc != nil {
		return m.ClaimDeltaFunc(matchID, seq)
	}
	return true, nil
}

func (m *MockStore) SettleDelta(ctx context.Context, matchID string, seq int, applied bool) error {
	m.mu.Lock()
	m.SettleDeltaCalls = append(m.SettleDeltaCalls, struct {
		MatchID string
		Seq     int
		Applied bool
	}{matchID, seq, applied})
	m.mu.Unlock()
	if m.SettleDeltaFunc != nil {
		return m.SettleDeltaFunc(matchID, seq, applied)
	}
	return nil
}

func (m *MockStore) CompleteFinalize(ctx context.Context, matchID string) error {
	if m.CompleteFinalizeFunc != nil {
		return m.CompleteFinalizeFunc(matchID)
	}
	return nil
}
