package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/roster"
	"github.com/mauv0809/courtside/internal/scoring"
)

type Server struct {
	Roster         roster.RosterStore
	Matches        match.MatchStore
	Stats          pairstats.Store
	Processor      *processor.Processor
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

type createMatchRequest struct {
	TeamID    string `json:"team_id"`
	Opponent  string `json:"opponent"`
	MatchDate string `json:"match_date"`
}

type courtLineupRequest struct {
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
}

type availabilityRequest struct {
	Status string `json:"status"`
}

type pairStatView struct {
	pairstats.PairStatistic
	WinPct   float64 `json:"win_pct"`
	GamesPct float64 `json:"games_pct"`
}

type courtView struct {
	match.Court
	Display string `json:"display"`
}

type matchView struct {
	*match.Match
	Courts []courtView `json:"courts"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func newMatchView(m *match.Match) matchView {
	v := matchView{Match: m, Courts: make([]courtView, len(m.Courts))}
	for i, c := range m.Courts {
		v.Courts[i] = courtView{Court: c, Display: scoring.FormatScoreDisplayWithTiebreak(c.ScoreMap())}
	}
	return v
}
