// internal/session/manager.go
//
// Session manager: the entry point for starting, resuming and playing
// riddles.
// Responsibilities:
//   - StartNewRiddle: enforce one daily game per player and date, build a
//     riddle, keep it live in the store and notify hooks.
//   - ResumeRiddle: continue the player's last unsolved riddle of a mode
//     (live in the store, else restored from persistence) or start anew.
//   - SubmitGuess: apply a guess under the riddle's lock and notify hooks.
//
// Hook failures are logged and swallowed.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/craftle/internal/daily"
	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/store"
)

var (
	ErrUnknownMode     = gamemode.ErrUnknownMode
	ErrNoEligibleGroup = game.ErrNoEligibleGroup
	ErrDailyPlayed     = daily.ErrAlreadyPlayed
	ErrNotFound        = store.ErrNotFound
)

// Options wires optional collaborators. Nil fields disable the feature.
type Options struct {
	Hooks Hooks
	Games Games
	Daily daily.Store
}

// Manager is safe for concurrent use.
type Manager struct {
	env   *game.Env
	store store.Store
	hooks Hooks
	games Games
	daily daily.Store
}

// New constructs a Manager.
func New(env *game.Env, st store.Store, opts Options) *Manager {
	m := &Manager{env: env, store: st, hooks: opts.Hooks, games: opts.Games, daily: opts.Daily}
	if m.hooks == nil {
		m.hooks = NopHooks{}
	}
	return m
}

// Env exposes the shared catalogs.
func (m *Manager) Env() *game.Env { return m.env }

// StartNewRiddle starts a fresh riddle.
func (m *Manager) StartNewRiddle(ctx context.Context, player string, mode gamemode.Mode) (string, game.View, error) {
	if !mode.Valid() {
		return "", game.View{}, ErrUnknownMode
	}
	if mode == gamemode.Daily && m.daily != nil {
		played, err := m.daily.AlreadyPlayed(ctx, player, daily.DateKey(m.now()))
		if err != nil {
			return "", game.View{}, fmt.Errorf("check daily: %w", err)
		}
		if played {
			return "", game.View{}, ErrDailyPlayed
		}
	}

	r, err := game.New(m.env, player, mode)
	if err != nil {
		return "", game.View{}, err
	}
	if err := m.store.Save(ctx, r); err != nil {
		return "", game.View{}, fmt.Errorf("save riddle: %w", err)
	}
	if err := m.hooks.GameStarted(ctx, r.Snapshot()); err != nil {
		log.Warn().Err(err).Str("gameId", r.ID).Msg("hook: game started")
	}
	log.Info().
		Str("gameId", r.ID).
		Str("player", player).
		Str("mode", mode.String()).
		Str("group", r.Group).
		Msg("riddle started")
	return r.ID, r.View(), nil
}

// ResumeRiddle continues the player's last unsolved riddle of mode, or
// starts a new one when there is nothing to resume.
func (m *Manager) ResumeRiddle(ctx context.Context, player string, mode gamemode.Mode) (string, game.View, error) {
	if !mode.Valid() {
		return "", game.View{}, ErrUnknownMode
	}
	if m.games == nil {
		return m.StartNewRiddle(ctx, player, mode)
	}
	snap, ok, err := m.games.LoadLastGame(ctx, player, mode)
	if err != nil {
		log.Warn().Err(err).Str("player", player).Msg("load last game")
		ok = false
	}
	if !ok || snap.State.Terminal() || !m.resumable(snap) {
		return m.StartNewRiddle(ctx, player, mode)
	}

	if r, err := m.store.Get(ctx, snap.ID); err == nil {
		return r.ID, r.View(), nil
	}
	r, err := game.Restore(m.env, snap)
	if err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("restore riddle")
		return m.StartNewRiddle(ctx, player, mode)
	}
	if err := m.store.Save(ctx, r); err != nil {
		return "", game.View{}, fmt.Errorf("save riddle: %w", err)
	}
	log.Info().Str("gameId", r.ID).Str("player", player).Int("guesses", r.Guesses()).Msg("riddle resumed")
	return r.ID, r.View(), nil
}

// resumable rejects daily riddles from an earlier date.
func (m *Manager) resumable(s game.Snapshot) bool {
	if s.Mode != gamemode.Daily {
		return true
	}
	return daily.DateKey(s.StartedAt) == daily.DateKey(m.now())
}

// SubmitGuess applies a guess to a live riddle. A rejected guess returns
// the unchanged view with accepted=false and no error.
func (m *Manager) SubmitGuess(ctx context.Context, id string, sub match.Submission, ref game.Ref) (game.View, bool, error) {
	r, err := m.store.Get(ctx, id)
	if err != nil {
		return game.View{}, false, err
	}

	out := r.ApplyGuess(sub, ref, func(o game.Outcome) {
		if err := m.hooks.GuessRecorded(ctx, r.ID, o); err != nil {
			log.Warn().Err(err).Str("gameId", r.ID).Msg("hook: guess recorded")
		}
		if o.State != game.StateSolved {
			return
		}
		s := Solved{
			RiddleID: r.ID,
			Player:   r.Player,
			Mode:     r.Mode,
			Group:    r.Group,
			Guesses:  o.Guesses,
			Elapsed:  o.Tip.Date.Sub(r.StartedAt),
			At:       o.Tip.Date,
		}
		if err := m.hooks.GameSolved(ctx, s); err != nil {
			log.Warn().Err(err).Str("gameId", r.ID).Msg("hook: game solved")
		}
	})

	if !out.Accepted {
		log.Debug().Err(out.Reason).Str("gameId", id).Msg("guess rejected")
		return r.View(), false, nil
	}
	log.Info().
		Str("gameId", id).
		Str("recipe", ref.Group+"/"+ref.ID).
		Int("matches", out.Result.Matches).
		Int("guesses", out.Guesses).
		Str("state", string(out.State)).
		Msg("guess accepted")
	return r.View(), true, nil
}

// Leaderboard returns the daily leaderboard for date (YYYY-MM-DD, or today).
func (m *Manager) Leaderboard(ctx context.Context, date string, limit int) ([]daily.LBRow, error) {
	if m.daily == nil {
		return nil, errors.New("session: daily results are not persisted")
	}
	if date == "" {
		date = daily.DateKey(m.now())
	}
	if limit <= 0 {
		limit = daily.LeaderboardSize
	}
	return m.daily.Leaderboard(ctx, date, limit)
}

func (m *Manager) now() time.Time { return m.env.Now() }
