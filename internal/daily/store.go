package daily

import (
	"context"
	"errors"
)

// ErrAlreadyPlayed is returned when a player starts a second daily game
// on the same date.
var ErrAlreadyPlayed = errors.New("daily: already played today")

// Result is one player's solved daily challenge.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Group     string `json:"group"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// LeaderboardSize is the default number of leaderboard rows.
const LeaderboardSize = 20

// Store persists daily results. Implementations must treat a second
// InsertResult for the same (player, date) as a no-op.
type Store interface {
	AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error)
	InsertResult(ctx context.Context, r Result) error
	Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error)
}
