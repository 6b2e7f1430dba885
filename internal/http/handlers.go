package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/lineup"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/processor"
	"github.com/mauv0809/courtside/internal/roster"
	"github.com/mauv0809/courtside/internal/scoring"
)

const invalidScoreMessage = "please correct this set score"

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) RosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Roster.GetTeamPlayers(r.Context(), r.PathValue("teamID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if players == nil {
			players = []roster.Player{}
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) UpsertPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player roster.Player
		if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
			writeBadRequest(w, "invalid player payload", err)
			return
		}
		player.TeamID = r.PathValue("teamID")
		if err := s.Roster.UpsertPlayer(r.Context(), player); err != nil {
			writeError(w, err)
			return
		}
		stored, err := s.Roster.GetPlayer(r.Context(), player.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func (s *Server) PairStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats.ListByTeam(r.Context(), r.PathValue("teamID"))
		if err != nil {
			writeError(w, err)
			return
		}
		views := make([]pairStatView, len(stats))
		for i := range stats {
			views[i] = pairStatView{
				PairStatistic: stats[i],
				WinPct:        stats[i].WinPercentage(lineup.NeutralPct),
				GamesPct:      stats[i].GamesPercentage(lineup.NeutralPct),
			}
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) TeamLineupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.suggestLineup(w, r, processor.LineupRequest{TeamID: r.PathValue("teamID")})
	}
}

func (s *Server) MatchLineupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.suggestLineup(w, r, processor.LineupRequest{MatchID: r.PathValue("matchID")})
	}
}

func (s *Server) suggestLineup(w http.ResponseWriter, r *http.Request, req processor.LineupRequest) {
	courts := s.Cfg.Lineup.Courts
	if raw := r.URL.Query().Get("courts"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "courts must be a number", err)
			return
		}
		courts = n
	}
	req.Courts = courts
	req.Strategy = r.URL.Query().Get("strategy")

	if req.Strategy != "" {
		if _, err := lineup.ParseStrategy(req.Strategy); err != nil {
			writeBadRequest(w, "unknown strategy", err)
			return
		}
	}

	suggestions, err := s.Processor.SuggestLineup(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Matches.ListMatches(r.Context(), r.PathValue("teamID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if matches == nil {
			matches = []match.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid match payload", err)
			return
		}
		if req.TeamID == "" || req.Opponent == "" {
			writeBadRequest(w, "team_id and opponent are required", nil)
			return
		}
		date := time.Now()
		if req.MatchDate != "" {
			parsed, err := time.Parse(time.RFC3339, req.MatchDate)
			if err != nil {
				writeBadRequest(w, "match_date must be RFC3339", err)
				return
			}
			date = parsed
		}

		m, err := s.Matches.CreateMatch(r.Context(), req.TeamID, req.Opponent, date)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Matches.GetMatch(r.Context(), r.PathValue("matchID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(m))
	}
}

func (s *Server) CourtLineupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		court, err := strconv.Atoi(r.PathValue("court"))
		if err != nil {
			writeBadRequest(w, "court must be a number", err)
			return
		}
		var req courtLineupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid lineup payload", err)
			return
		}
		if err := s.Processor.SetCourtLineup(r.Context(), r.PathValue("matchID"), court, req.Player1ID, req.Player2ID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SetScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		court, err := strconv.Atoi(r.PathValue("court"))
		if err != nil {
			writeBadRequest(w, "court must be a number", err)
			return
		}
		setNumber, err := strconv.Atoi(r.PathValue("set"))
		if err != nil {
			writeBadRequest(w, "set must be a number", err)
			return
		}
		var score scoring.SetScore
		if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
			writeBadRequest(w, "invalid score payload", err)
			return
		}
		if err := s.Processor.RecordSetScore(r.Context(), r.PathValue("matchID"), court, setNumber, score); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) AvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req availabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid availability payload", err)
			return
		}
		status, err := lineup.ParseAvailability(req.Status)
		if err != nil {
			writeBadRequest(w, "unknown availability status", err)
			return
		}
		if err := s.Processor.SetAvailability(r.Context(), r.PathValue("matchID"), r.PathValue("playerID"), status); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) FinalizeMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		force := r.URL.Query().Get("force") == "true"
		dryRun := isDryRunFromContext(r)

		m, err := s.Processor.FinalizeMatch(r.Context(), r.PathValue("matchID"), force, dryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newMatchView(m))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func writeBadRequest(w http.ResponseWriter, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusBadRequest, resp)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidScore):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: invalidScoreMessage, Detail: err.Error()})
	case errors.Is(err, match.ErrNotFound), errors.Is(err, match.ErrTeamNotFound), errors.Is(err, roster.ErrPlayerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, match.ErrMatchFinalized), errors.Is(err, processor.ErrAlreadyFinalized),
		errors.Is(err, match.ErrPlayerOnAnotherCourt), errors.Is(err, match.ErrDeltasOutstanding):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, processor.ErrMatchIncomplete):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, roster.ErrInvalidPlayer):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
