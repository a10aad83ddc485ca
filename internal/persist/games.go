package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/robalobadob/craftle/internal/daily"
	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
	"github.com/robalobadob/craftle/internal/session"
)

// Store persists riddles and daily results. It implements session.Hooks,
// session.Games and daily.Store.
type Store struct {
	db *DB
}

var (
	_ session.Hooks = (*Store)(nil)
	_ session.Games = (*Store)(nil)
	_ daily.Store   = (*Store)(nil)
)

// NewStore wraps an opened database.
func NewStore(db *DB) *Store { return &Store{db: db} }

// GameStarted inserts the game row, its hints and its inventory.
func (s *Store) GameStarted(ctx context.Context, snap game.Snapshot) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.db.exec(ctx, tx,
			`INSERT INTO games (id, player_id, gamemode, group_key, state, guesses, started_at)
			 VALUES (?,?,?,?,?,?,?)`,
			snap.ID, snap.Player, int(snap.Mode), snap.Group, string(snap.State), len(snap.Tips), formatTime(snap.StartedAt),
		); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}
		for i, h := range snap.Hints {
			if err := s.db.exec(ctx, tx,
				`INSERT INTO hints (game_id, position, text) VALUES (?,?,?)`, snap.ID, i, h,
			); err != nil {
				return fmt.Errorf("insert hint: %w", err)
			}
		}
		for i, m := range snap.Inventory {
			if err := s.db.exec(ctx, tx,
				`INSERT INTO inventory_items (game_id, position, item_id) VALUES (?,?,?)`, snap.ID, i, string(m),
			); err != nil {
				return fmt.Errorf("insert inventory item: %w", err)
			}
		}
		return nil
	})
}

// GuessRecorded appends a tip with its scored cells and updates counters.
func (s *Store) GuessRecorded(ctx context.Context, riddleID string, out game.Outcome) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		tipID := uuid.NewString()
		it := out.Tip.Item
		if err := s.db.exec(ctx, tx,
			`INSERT INTO tips (id, game_id, seq, group_key, recipe_id, name, src, created_at)
			 VALUES (?,?,?,?,?,?,?,?)`,
			tipID, riddleID, out.Guesses, it.Group, it.ID, it.Name, it.Src, formatTime(out.Tip.Date),
		); err != nil {
			return fmt.Errorf("insert tip: %w", err)
		}
		for pos, c := range out.Tip.Table {
			if c == nil {
				continue
			}
			if err := s.db.exec(ctx, tx,
				`INSERT INTO tip_slots (tip_id, position, item_id, status) VALUES (?,?,?,?)`,
				tipID, pos, string(c.Item), string(c.Status),
			); err != nil {
				return fmt.Errorf("insert tip slot: %w", err)
			}
		}
		var finished any
		if out.State.Terminal() {
			finished = formatTime(out.Tip.Date)
		}
		if err := s.db.exec(ctx, tx,
			`UPDATE games SET guesses=?, state=?, finished_at=COALESCE(?, finished_at) WHERE id=?`,
			out.Guesses, string(out.State), finished, riddleID,
		); err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		return nil
	})
}

// GameSolved records the daily result; other modes need nothing beyond
// the state update done in GuessRecorded.
func (s *Store) GameSolved(ctx context.Context, sv session.Solved) error {
	if sv.Mode != gamemode.Daily {
		return nil
	}
	return s.InsertResult(ctx, daily.Result{
		PlayerID:  sv.Player,
		Date:      daily.DateKey(sv.At),
		Group:     sv.Group,
		Guesses:   sv.Guesses,
		ElapsedMs: sv.Elapsed.Milliseconds(),
	})
}

// LoadLastGame returns the player's most recent unsolved riddle of mode.
func (s *Store) LoadLastGame(ctx context.Context, player string, mode gamemode.Mode) (game.Snapshot, bool, error) {
	snap := game.Snapshot{Player: player, Mode: mode}
	var (
		state   string
		started string
	)
	err := s.db.QueryRowContext(ctx, s.db.rebind(
		`SELECT id, group_key, state, started_at FROM games
		 WHERE player_id=? AND gamemode=? AND state=?
		 ORDER BY started_at DESC LIMIT 1`),
		player, int(mode), string(game.StateAwaitingGuess),
	).Scan(&snap.ID, &snap.Group, &state, &started)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Snapshot{}, false, nil
	}
	if err != nil {
		return game.Snapshot{}, false, fmt.Errorf("load game: %w", err)
	}
	snap.State = game.State(state)
	snap.StartedAt = parseTime(started)

	if snap.Hints, err = s.hints(ctx, snap.ID); err != nil {
		return game.Snapshot{}, false, err
	}
	if snap.Inventory, err = s.inventory(ctx, snap.ID); err != nil {
		return game.Snapshot{}, false, err
	}
	size := mode.GridSize()
	if snap.Tips, err = s.tips(ctx, snap.ID, size*size); err != nil {
		return game.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *Store) hints(ctx context.Context, gameID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.db.rebind(
		`SELECT text FROM hints WHERE game_id=? ORDER BY position`), gameID)
	if err != nil {
		return nil, fmt.Errorf("load hints: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) inventory(ctx context.Context, gameID string) ([]recipes.Material, error) {
	rows, err := s.db.QueryContext(ctx, s.db.rebind(
		`SELECT item_id FROM inventory_items WHERE game_id=? ORDER BY position`), gameID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	defer rows.Close()
	var out []recipes.Material
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, recipes.Material(id))
	}
	return out, rows.Err()
}

func (s *Store) tips(ctx context.Context, gameID string, cells int) ([]game.Tip, error) {
	rows, err := s.db.QueryContext(ctx, s.db.rebind(
		`SELECT t.id, t.group_key, t.recipe_id, t.name, t.src, t.created_at, ts.position, ts.item_id, ts.status
		 FROM tips t LEFT JOIN tip_slots ts ON ts.tip_id = t.id
		 WHERE t.game_id=?
		 ORDER BY t.seq, ts.position`), gameID)
	if err != nil {
		return nil, fmt.Errorf("load tips: %w", err)
	}
	defer rows.Close()

	var (
		out    []game.Tip
		lastID string
	)
	for rows.Next() {
		var (
			id, created    string
			item           game.TipItem
			pos            sql.NullInt64
			itemID, status sql.NullString
		)
		if err := rows.Scan(&id, &item.Group, &item.ID, &item.Name, &item.Src, &created, &pos, &itemID, &status); err != nil {
			return nil, err
		}
		if id != lastID {
			out = append(out, game.Tip{Item: item, Table: make([]*match.Cell, cells), Date: parseTime(created)})
			lastID = id
		}
		if pos.Valid && int(pos.Int64) < cells {
			out[len(out)-1].Table[pos.Int64] = &match.Cell{
				Item:   recipes.Material(itemID.String),
				Status: match.Mark(status.String),
			}
		}
	}
	return out, rows.Err()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
