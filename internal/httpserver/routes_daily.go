// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily challenge.
// Daily riddles are started through POST /riddle/new with gamemode 3;
// this file only exposes the results:
//   - GET /daily/leaderboard?date=YYYY-MM-DD → top 20 (default today, UTC)

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/craftle/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type leaderboardRes struct {
	Date string        `json:"date"`
	Rows []daily.LBRow `json:"rows"`
}

// handleLeaderboard returns the fastest solves for a date.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.mgr.Env().Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := s.mgr.Leaderboard(r.Context(), date, daily.LeaderboardSize)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, leaderboardRes{Date: date, Rows: rows})
}
