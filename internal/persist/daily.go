package persist

import (
	"context"
	"time"

	"github.com/robalobadob/craftle/internal/daily"
)

// AlreadyPlayed reports whether player has a daily result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx, s.db.rebind(
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`),
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores a daily result; a second result for the same
// player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r daily.Result) error {
	return s.db.exec(ctx, s.db,
		`INSERT INTO daily_results (player_id, date, group_key, guesses, elapsed_ms, created_at)
		 VALUES (?,?,?,?,?,?)
		 ON CONFLICT (player_id, date) DO NOTHING`,
		r.PlayerID, r.Date, r.Group, r.Guesses, r.ElapsedMs, formatTime(time.Now()),
	)
}

// Leaderboard returns the fastest solves for date.
// Ordered by elapsed time, then guesses, then insertion time.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]daily.LBRow, error) {
	if limit <= 0 {
		limit = daily.LeaderboardSize
	}
	rows, err := s.db.QueryContext(ctx, s.db.rebind(
		`SELECT player_id, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, guesses ASC, created_at ASC
		 LIMIT ?`), date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]daily.LBRow, 0, limit)
	for rows.Next() {
		var r daily.LBRow
		if err := rows.Scan(&r.PlayerID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
