package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/pubsub"
	"github.com/mauv0809/courtside/internal/roster"
	"github.com/mauv0809/courtside/internal/scoring"
)

// MaxSetsPerCourt is the number of sets in a best-of-three court.
const MaxSetsPerCourt = scoring.MaxSetsPerCourt

// New creates a new Processor.
func New(matches match.MatchStore, roster roster.RosterStore, stats pairstats.Store, engine *lineup.Engine, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		matches: matches,
		roster:  roster,
		stats:   stats,
		engine:  engine,
		metrics: metrics,
		pubsub:  pubsub,
	}
}

// RecordSetScore validates a set score and stores it on the match. A set is
// rejected when the earlier sets of its court already decided the court.
func (p *Processor) RecordSetScore(ctx context.Context, matchID string, court, setNumber int, score scoring.SetScore) error {
	if court < 1 {
		p.metrics.IncInvalidScores()
		return fmt.Errorf("%w: court number %d", scoring.ErrInvalidScore, court)
	}
	if setNumber < 1 || setNumber > MaxSetsPerCourt {
		p.metrics.IncInvalidScores()
		return fmt.Errorf("%w: set number %d", scoring.ErrInvalidScore, setNumber)
	}
	if err := scoring.ValidateSet(score); err != nil {
		p.metrics.IncInvalidScores()
		log.Warn("Rejected set score", "matchID", matchID, "court", court, "set", setNumber, "error", err)
		return fmt.Errorf("court %d set %d: %w", court, setNumber, err)
	}
	if score.IsMatchTiebreak() && setNumber != MaxSetsPerCourt {
		p.metrics.IncInvalidScores()
		return fmt.Errorf("%w: a match tiebreak can only be set %d", scoring.ErrInvalidScore, MaxSetsPerCourt)
	}

	m, err := p.matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.ProcessingStatus.Locked() {
		return fmt.Errorf("%w: %s", match.ErrMatchFinalized, matchID)
	}
	if err := scoring.ValidateCourt(setsBefore(m, court, setNumber, score)); err != nil {
		p.metrics.IncInvalidScores()
		log.Warn("Rejected set score", "matchID", matchID, "court", court, "set", setNumber, "error", err)
		return fmt.Errorf("court %d set %d: %w", court, setNumber, err)
	}
	return p.matches.UpsertSetScore(ctx, matchID, court, setNumber, scoring.Normalize(score))
}

// setsBefore returns the court's stored sets numbered below setNumber,
// followed by score.
func setsBefore(m *match.Match, court, setNumber int, score scoring.SetScore) []scoring.SetScore {
	var sets []scoring.SetScore
	for _, c := range m.Courts {
		if c.Number != court {
			continue
		}
		byNumber := c.ScoreMap()
		for n := 1; n < setNumber; n++ {
			if s, ok := byNumber[n]; ok {
				sets = append(sets, s)
			}
		}
	}
	return append(sets, score)
}

// SetCourtLineup records the home pair of a court after checking both players
// belong to the match's team.
func (p *Processor) SetCourtLineup(ctx context.Context, matchID string, court int, player1ID, player2ID string) error {
	if court < 1 {
		return fmt.Errorf("%w: court number %d", roster.ErrInvalidPlayer, court)
	}
	if player1ID == "" || player2ID == "" || player1ID == player2ID {
		return fmt.Errorf("%w: court %d needs two different players", roster.ErrInvalidPlayer, court)
	}
	m, err := p.matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	for _, id := range []string{player1ID, player2ID} {
		player, err := p.roster.GetPlayer(ctx, id)
		if err != nil {
			return err
		}
		if player.TeamID != m.TeamID {
			return fmt.Errorf("%w: player %s is not on team %s", roster.ErrInvalidPlayer, id, m.TeamID)
		}
	}
	return p.matches.SetCourtLineup(ctx, matchID, court, player1ID, player2ID)
}

// SetAvailability records a player's answer for a match of their team.
func (p *Processor) SetAvailability(ctx context.Context, matchID, playerID string, status lineup.Availability) error {
	m, err := p.matches.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if m.ProcessingStatus.Locked() {
		return fmt.Errorf("%w: %s", match.ErrMatchFinalized, matchID)
	}
	player, err := p.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if player.TeamID != m.TeamID {
		return fmt.Errorf("%w: player %s is not on team %s", roster.ErrInvalidPlayer, playerID, m.TeamID)
	}
	return p.roster.SetMatchAvailability(ctx, matchID, playerID, status)
}

// FinalizeMatch computes the match result and, unless dryRun, stores it and
// folds every court's pair into the pair statistics. Courts that have not
// been decided block finalization unless force is set. A match is counted at
// most once. If applying the statistics fails the match stays FINALIZING, and
// calling FinalizeMatch again applies the deltas that are still pending.
func (p *Processor) FinalizeMatch(ctx context.Context, matchID string, force, dryRun bool) (*match.Match, error) {
	m, err := p.matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	switch m.ProcessingStatus {
	case match.StatusFinalized:
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, matchID)
	case match.StatusFinalizing:
		if dryRun {
			log.Info("[Dry Run] Would resume match finalization", "matchID", matchID)
			return m, nil
		}
		log.Warn("Resuming match finalization", "matchID", matchID)
		return p.completeFinalize(ctx, m)
	}

	for _, c := range m.Courts {
		for _, s := range c.Sets {
			if err := scoring.ValidateSet(s.SetScore); err != nil {
				return nil, fmt.Errorf("court %d set %d: %w", c.Number, s.SetNumber, err)
			}
		}
		if err := scoring.ValidateCourt(c.Scores()); err != nil {
			return nil, fmt.Errorf("court %d: %w", c.Number, err)
		}
	}

	if !force {
		if undecided := undecidedCourts(m.Courts); len(undecided) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMatchIncomplete, strings.Join(undecided, ", "))
		}
	}

	resolved := scoring.ResolveCourts(m.CourtResults())
	for i := range m.Courts {
		m.Courts[i].Won = resolved[i].Won
	}
	result := scoring.Aggregate(resolved)
	m.Outcome = result.Outcome
	m.ScoreSummary = result.ScoreSummary
	deltas := PairDeltas(m.Courts)

	if dryRun {
		log.Info("[Dry Run] Would finalize match", "matchID", matchID, "outcome", result.Outcome, "summary", result.ScoreSummary, "pairs", len(deltas))
		return m, nil
	}

	if err := p.matches.BeginFinalize(ctx, matchID, result, deltas); err != nil {
		if errors.Is(err, match.ErrMatchFinalized) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, matchID)
		}
		return nil, err
	}
	m.ProcessingStatus = match.StatusFinalizing
	return p.completeFinalize(ctx, m)
}

// completeFinalize applies the match's pending deltas one claim at a time and
// then marks the match FINALIZED.
func (p *Processor) completeFinalize(ctx context.Context, m *match.Match) (*match.Match, error) {
	pending, err := p.matches.FinalizationDeltas(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	applied := 0
	deltas := make([]pairstats.Delta, 0, len(pending))
	for _, d := range pending {
		deltas = append(deltas, d.Delta)
		if d.State == match.DeltaApplied {
			continue
		}
		claimed, err := p.matches.ClaimDelta(ctx, m.ID, d.Seq)
		if err != nil {
			return nil, err
		}
		if !claimed {
			continue
		}
		incErr := pairstats.Apply(ctx, p.stats, m.TeamID, d.Delta)
		if err := p.matches.SettleDelta(ctx, m.ID, d.Seq, incErr == nil); err != nil {
			log.Error("Failed to settle pair statistics delta", "error", err, "matchID", m.ID, "seq", d.Seq, "applied", incErr == nil)
			return nil, err
		}
		if incErr != nil {
			p.metrics.AddPairStatsIncrements(applied)
			log.Error("Failed to apply pair statistics", "error", incErr, "matchID", m.ID, "playerA", d.PlayerA, "playerB", d.PlayerB)
			return nil, fmt.Errorf("failed to apply pair statistics: %w", incErr)
		}
		applied++
	}
	p.metrics.AddPairStatsIncrements(applied)

	if err := p.matches.CompleteFinalize(ctx, m.ID); err != nil {
		if errors.Is(err, match.ErrMatchFinalized) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyFinalized, m.ID)
		}
		return nil, err
	}
	m.ProcessingStatus = match.StatusFinalized
	p.metrics.IncMatchesFinalized(string(m.Outcome))

	p.publishFinalized(m, deltas)

	log.Info("Finalized match", "matchID", m.ID, "team", m.TeamID, "opponent", m.Opponent, "outcome", m.Outcome, "summary", m.ScoreSummary)
	return m, nil
}

func (p *Processor) publishFinalized(m *match.Match, deltas []pairstats.Delta) {
	event := MatchFinalizedEvent{
		MatchID:      m.ID,
		TeamID:       m.TeamID,
		Opponent:     m.Opponent,
		Outcome:      m.Outcome,
		ScoreSummary: m.ScoreSummary,
		Courts:       make([]CourtSummary, len(m.Courts)),
		Deltas:       deltas,
		FinalizedAt:  time.Now().UTC(),
	}
	for i, c := range m.Courts {
		event.Courts[i] = CourtSummary{
			Number:  c.Number,
			Won:     c.Won,
			Display: scoring.FormatScoreDisplayWithTiebreak(c.ScoreMap()),
		}
	}

	// The result is already stored, so a failed publish is only reported.
	if err := p.pubsub.SendMessage(pubsub.EventMatchFinalized, event); err != nil {
		log.Error("Failed to publish match finalized event", "error", err, "matchID", m.ID)
		p.metrics.IncEventsFailed()
		return
	}
	p.metrics.IncEventsPublished()
}

func undecidedCourts(courts []match.Court) []string {
	if len(courts) == 0 {
		return []string{"no courts scored"}
	}
	var undecided []string
	for _, c := range courts {
		if !scoring.CourtDecided(c.Scores()) {
			undecided = append(undecided, fmt.Sprintf("court %d", c.Number))
		}
	}
	return undecided
}

// PairDeltas derives one statistics increment per court with a known home
// pair. Games are counted over regular sets only; match tiebreak points are
// not games. Courts must have their Won flag resolved.
func PairDeltas(courts []match.Court) []pairstats.Delta {
	sorted := make([]match.Court, len(courts))
	copy(sorted, courts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	var deltas []pairstats.Delta
	for _, c := range sorted {
		if !c.HasLineup() || c.Player1ID == c.Player2ID {
			continue
		}
		d := pairstats.Delta{PlayerA: c.Player1ID, PlayerB: c.Player2ID, Won: c.Won}
		for _, s := range c.Sets {
			if s.IsMatchTiebreak() {
				continue
			}
			d.GamesWon += s.HomeGames
			d.GamesPlayed += s.HomeGames + s.AwayGames
		}
		deltas = append(deltas, d)
	}
	return deltas
}

// SuggestLineup loads the player pool and runs the lineup engine.
func (p *Processor) SuggestLineup(ctx context.Context, req LineupRequest) ([]lineup.PairSuggestion, error) {
	strategy := p.engine.Strategy()
	if req.Strategy != "" {
		s, err := lineup.ParseStrategy(req.Strategy)
		if err != nil {
			return nil, err
		}
		strategy = s
	}

	teamID := req.TeamID
	var pool []lineup.PlayerRef
	if req.MatchID != "" {
		m, err := p.matches.GetMatch(ctx, req.MatchID)
		if err != nil {
			return nil, err
		}
		teamID = m.TeamID
		pool, err = p.roster.GetMatchPool(ctx, teamID, m.ID)
		if err != nil {
			return nil, err
		}
	} else {
		players, err := p.roster.GetTeamPlayers(ctx, teamID)
		if err != nil {
			return nil, err
		}
		pool = roster.Refs(players)
	}

	return p.engine.SuggestWith(ctx, strategy, teamID, pool, req.Courts)
}
