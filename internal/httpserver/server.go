// internal/httpserver/server.go
//
// HTTP server wiring for the craftle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/gamemodes", "/items/search".
//   - Riddle endpoints (optional auth): POST /riddle/new, POST /riddle/guess.
//   - Daily leaderboard: mounted under /daily.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Bearer tokens are verified only, never issued; a valid token's "id"
//     claim becomes the player id, guests get a stable anonymous cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/session"
)

// Options configures a Server.
type Options struct {
	JWTSecret    string
	ClientOrigin string
	// SecureCookies marks cookies Secure and SameSite=None.
	SecureCookies bool
}

// Server bundles the router and the session manager.
type Server struct {
	r    *chi.Mux
	mgr  *session.Manager
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(mgr *session.Manager, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), mgr: mgr, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"craftle","endpoints":["/health","/gamemodes","POST /riddle/new","POST /riddle/guess","/items/search","/daily/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/gamemodes", s.handleGamemodes)
	s.r.Get("/items/search", s.handleItemSearch)

	// Riddle endpoints, optional auth (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		r.Post("/riddle/new", s.handleNewRiddle)
		r.Post("/riddle/guess", s.handleGuess)
	})

	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.opts.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http")
	})
}

// ------------------------------ helpers ------------------------------------

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrUnknownMode):
		return http.StatusBadRequest, "unknown_gamemode"
	case errors.Is(err, session.ErrNoEligibleGroup):
		return http.StatusUnprocessableEntity, "no_eligible_group"
	case errors.Is(err, session.ErrDailyPlayed):
		return http.StatusConflict, "daily_already_played"
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// ------------------------------ catalog ------------------------------------

type gamemodeRes struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	GridSize int    `json:"gridSize"`
	Hints    bool   `json:"hints"`
	Groups   int    `json:"groups"`
}

func (s *Server) handleGamemodes(w http.ResponseWriter, r *http.Request) {
	cat := s.mgr.Env().Recipes
	out := make([]gamemodeRes, 0, len(gamemode.All))
	for _, m := range gamemode.All {
		n := len(cat.EligibleGroups(m))
		if m == gamemode.Tutorial {
			n = 1
		}
		out = append(out, gamemodeRes{ID: int(m), Name: m.String(), GridSize: m.GridSize(), Hints: m.HasHints(), Groups: n})
	}
	writeJSON(w, out)
}

func (s *Server) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits := s.mgr.Env().Items.Search(r.URL.Query().Get("q"), limit)
	if hits == nil {
		hits = []items.Match{}
	}
	writeJSON(w, hits)
}

// ------------------------------ RIDDLE -------------------------------------

// newRiddleReq/Res payloads for POST /riddle/new.
type newRiddleReq struct {
	Gamemode int  `json:"gamemode"`
	NewGame  bool `json:"newGame"`
}
type newRiddleRes struct {
	GameID string    `json:"gameId"`
	Riddle game.View `json:"riddle"`
}

// handleNewRiddle starts a riddle, or resumes the player's last unsolved
// one of the same gamemode when newGame is false.
func (s *Server) handleNewRiddle(w http.ResponseWriter, r *http.Request) {
	var req newRiddleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	mode, err := gamemode.Parse(req.Gamemode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_gamemode")
		return
	}
	player := s.playerID(w, r)

	var (
		id   string
		view game.View
	)
	if req.NewGame {
		id, view, err = s.mgr.StartNewRiddle(r.Context(), player, mode)
	} else {
		id, view, err = s.mgr.ResumeRiddle(r.Context(), player, mode)
	}
	if err != nil {
		code, msg := statusFor(err)
		if code == http.StatusInternalServerError {
			log.Error().Err(err).Str("player", player).Msg("new riddle")
		}
		writeError(w, code, msg)
		return
	}
	writeJSON(w, newRiddleRes{GameID: id, Riddle: view})
}

// guessReq is the payload for POST /riddle/guess.
type guessReq struct {
	GameID string   `json:"gameId"`
	Item   game.Ref `json:"item"`
	Table  Table    `json:"table"`
}

type guessRes struct {
	Accepted bool `json:"accepted"`
	game.View
}

// handleGuess applies a guess. Rejected guesses return the unchanged
// riddle with accepted=false.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	view, accepted, err := s.mgr.SubmitGuess(r.Context(), req.GameID, req.Table.Submission(), req.Item)
	if err != nil {
		code, msg := statusFor(err)
		writeError(w, code, msg)
		return
	}
	writeJSON(w, guessRes{Accepted: accepted, View: view})
}
