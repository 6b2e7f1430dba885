package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	lineupsSuggested    map[string]int
	lineupDurations     []float64
	matchesFinalized    map[string]int
	invalidScores       int
	pairStatsIncrements int
	eventsPublished     int
	eventsFailed        int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		lineupsSuggested: make(map[string]int),
		lineupDurations:  make([]float64, 0),
		matchesFinalized: make(map[string]int),
	}
}

func (m *Mock) IncLineupsSuggested(strategy string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineupsSuggested[strategy]++
}

func (m *Mock) ObserveLineupDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lineupDurations = append(m.lineupDurations, duration)
}

func (m *Mock) IncMatchesFinalized(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFinalized[outcome]++
}

func (m *Mock) IncInvalidScores() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidScores++
}

func (m *Mock) AddPairStatsIncrements(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairStatsIncrements += count
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// LineupsSuggested returns how often IncLineupsSuggested was called for a strategy.
func (m *Mock) LineupsSuggested(strategy string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lineupsSuggested[strategy]
}

// LineupDurations returns the observed optimization durations.
func (m *Mock) LineupDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.lineupDurations))
	copy(out, m.lineupDurations)
	return out
}

// MatchesFinalized returns how often IncMatchesFinalized was called for an outcome.
func (m *Mock) MatchesFinalized(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFinalized[outcome]
}

// InvalidScores returns the number of times IncInvalidScores was called.
func (m *Mock) InvalidScores() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidScores
}

// PairStatsIncrements returns the sum passed to AddPairStatsIncrements.
func (m *Mock) PairStatsIncrements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pairStatsIncrements
}

// EventsPublished returns the number of times IncEventsPublished was called.
func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

// EventsFailed returns the number of times IncEventsFailed was called.
func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}
