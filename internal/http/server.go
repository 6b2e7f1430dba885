package http

import (
	"net/http"

	"github.com/mauv0809/courtside/internal/config"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/metrics"
	"github.com/mauv0809/courtside/internal/pairstats"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/roster"
)

func NewServer(rosterStore roster.RosterStore, matchStore match.MatchStore, stats pairstats.Store, proc *processor.Processor, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Roster:         rosterStore,
		Matches:        matchStore,
		Stats:          stats,
		Processor:      proc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /teams/{teamID}/roster", Chain(s.RosterHandler(), paramsMiddleware))
	s.Router.Handle("POST /teams/{teamID}/players", Chain(s.UpsertPlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams/{teamID}/pair-stats", Chain(s.PairStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams/{teamID}/lineup", Chain(s.TeamLineupHandler(), paramsMiddleware))
	s.Router.Handle("GET /teams/{teamID}/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{matchID}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PUT /matches/{matchID}/courts/{court}/lineup", Chain(s.CourtLineupHandler(), paramsMiddleware))
	s.Router.Handle("PUT /matches/{matchID}/courts/{court}/sets/{set}", Chain(s.SetScoreHandler(), paramsMiddleware))
	s.Router.Handle("PUT /matches/{matchID}/availability/{playerID}", Chain(s.AvailabilityHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{matchID}/lineup", Chain(s.MatchLineupHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches/{matchID}/finalize", Chain(s.FinalizeMatchHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
