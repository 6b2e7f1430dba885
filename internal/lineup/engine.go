package lineup

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
)

// Engine suggests lineups from a player pool. It keeps no state between
// calls and may be used concurrently.
type Engine struct {
	stats    pairstats.Reader
	strategy Strategy
	metrics  metrics.Metrics
}

// NewEngine creates an Engine. A nil strategy selects Greedy.
func NewEngine(stats pairstats.Reader, strategy Strategy, metrics metrics.Metrics) *Engine {
	if strategy == nil {
		strategy = Greedy{}
	}
	return &Engine{
		stats:    stats,
		strategy: strategy,
		metrics:  metrics,
	}
}

// Strategy returns the engine's default strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Suggest returns up to courts pairs for the team, ranked by score. courts <= 0
// means DefaultCourts. The only errors come from reading pair statistics.
func (e *Engine) Suggest(ctx context.Context, teamID string, pool []PlayerRef, courts int) ([]PairSuggestion, error) {
	return e.SuggestWith(ctx, e.strategy, teamID, pool, courts)
}

// SuggestWith is Suggest with an explicit strategy for this call.
func (e *Engine) SuggestWith(ctx context.Context, strategy Strategy, teamID string, pool []PlayerRef, courts int) ([]PairSuggestion, error) {
	start := time.Now()
	if courts <= 0 {
		courts = DefaultCourts
	}
	if strategy == nil {
		strategy = e.strategy
	}

	eligible := Eligible(pool)
	if len(eligible) < 2 {
		log.Info("Not enough eligible players for a lineup", "team", teamID, "pool", len(pool), "eligible", len(eligible))
		return []PairSuggestion{}, nil
	}

	scored, err := e.ScoreCandidates(ctx, teamID, Candidates(eligible))
	if err != nil {
		return nil, err
	}

	selected := strategy.Select(scored, courts)
	for i := range selected {
		selected[i].Court = i + 1
	}

	duration := time.Since(start)
	if e.metrics != nil {
		e.metrics.IncLineupsSuggested(strategy.Name())
		e.metrics.ObserveLineupDuration(duration.Seconds())
	}
	log.Info("Suggested lineup",
		"team", teamID,
		"strategy", strategy.Name(),
		"eligible", len(eligible),
		"candidates", len(scored),
		"pairs", len(selected),
		"duration_ms", duration.Milliseconds(),
	)
	return selected, nil
}

// ScoreCandidates looks up each pair's history and scores it.
func (e *Engine) ScoreCandidates(ctx context.Context, teamID string, candidates []Candidate) ([]PairSuggestion, error) {
	scored := make([]PairSuggestion, 0, len(candidates))
	for _, c := range candidates {
		stat, err := e.stats.Get(ctx, teamID, c.A.ID, c.B.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pair stats for %s/%s: %w", c.A.ID, c.B.ID, err)
		}
		scored = append(scored, ScorePair(c.A, c.B, stat))
	}
	return scored, nil
}

// TotalScore sums the scores of a lineup.
func TotalScore(lineup []PairSuggestion) float64 {
	var total float64
	for _, s := range lineup {
		total += s.Score
	}
	return total
}
