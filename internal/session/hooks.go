package session

import (
	"context"
	"time"

	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/gamemode"
)

// Solved describes a riddle the moment it was solved.
type Solved struct {
	RiddleID string
	Player   string
	Mode     gamemode.Mode
	Group    string
	Guesses  int
	Elapsed  time.Duration
	At       time.Time
}

// Hooks receive lifecycle events. Errors are logged by the manager and
// never reach the player.
type Hooks interface {
	GameStarted(ctx context.Context, s game.Snapshot) error
	GuessRecorded(ctx context.Context, riddleID string, out game.Outcome) error
	GameSolved(ctx context.Context, s Solved) error
}

// Games loads persisted riddles for resume.
type Games interface {
	// LoadLastGame returns the player's most recent riddle of mode.
	LoadLastGame(ctx context.Context, player string, mode gamemode.Mode) (game.Snapshot, bool, error)
}

// NopHooks ignores every event.
type NopHooks struct{}

func (NopHooks) GameStarted(context.Context, game.Snapshot) error           { return nil }
func (NopHooks) GuessRecorded(context.Context, string, game.Outcome) error { return nil }
func (NopHooks) GameSolved(context.Context, Solved) error                  { return nil }
