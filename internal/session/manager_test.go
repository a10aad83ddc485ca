package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/craftle/internal/daily"
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/game"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
	rt "github.com/robalobadob/craftle/internal/recipes/recipetest"
	"github.com/robalobadob/craftle/internal/store"
)

var now = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

type fakeHooks struct {
	mu      sync.Mutex
	started []game.Snapshot
	guesses []game.Outcome
	solved  []Solved
	fail    bool
}

func (h *fakeHooks) GameStarted(_ context.Context, s game.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, s)
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func (h *fakeHooks) GuessRecorded(_ context.Context, _ string, o game.Outcome) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.guesses = append(h.guesses, o)
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

func (h *fakeHooks) GameSolved(_ context.Context, s Solved) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.solved = append(h.solved, s)
	if h.fail {
		return errors.New("boom")
	}
	return nil
}

type fakeGames struct {
	snap game.Snapshot
	ok   bool
}

func (f *fakeGames) LoadLastGame(context.Context, string, gamemode.Mode) (game.Snapshot, bool, error) {
	return f.snap, f.ok, nil
}

type fakeDaily struct {
	played map[string]bool
}

func (f *fakeDaily) AlreadyPlayed(_ context.Context, player, date string) (bool, error) {
	return f.played[player+"|"+date], nil
}

func (f *fakeDaily) InsertResult(_ context.Context, r daily.Result) error {
	f.played[r.PlayerID+"|"+r.Date] = true
	return nil
}

func (f *fakeDaily) Leaderboard(context.Context, string, int) ([]daily.LBRow, error) {
	return []daily.LBRow{{PlayerID: "p1", Guesses: 1}}, nil
}

// torch0 is the only group, so every riddle hides it.
func newManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	torch := rt.Shaped("torch0", "torch", map[int]recipes.AlternativeSet{0: rt.Alt("coal"), 3: rt.Alt("stick")})
	stick := rt.Shaped("stick0", "stick", map[int]recipes.AlternativeSet{0: rt.Alt("planks"), 3: rt.Alt("planks")})
	stick.Gamemodes = gamemode.NewSet(gamemode.AllInOne)
	cat := rt.Catalog(t, gamemode.NewSet(gamemode.Classic, gamemode.Daily, gamemode.AllInOne, gamemode.Hardcore), torch, stick)
	ic, err := items.New([]items.Item{{ID: "coal"}, {ID: "stick"}, {ID: "planks"}, {ID: "torch"}})
	require.NoError(t, err)

	st, err := store.NewLRU(16)
	require.NoError(t, err)
	env := &game.Env{
		Recipes: cat,
		Items:   ic,
		Rand:    entropy.New(1),
		Clock:   func() time.Time { return now },
	}
	return New(env, st, opts)
}

func grid(cells map[int]string) match.Submission {
	s := make(match.Submission, 9)
	for i, m := range cells {
		s[i] = recipes.Material(m)
	}
	return s
}

var (
	torchGrid = grid(map[int]string{0: "coal", 3: "stick"})
	torchRef  = game.Ref{Group: "torch0", ID: "torch"}
	stickGrid = grid(map[int]string{0: "planks", 3: "planks"})
	stickRef  = game.Ref{Group: "stick0", ID: "stick"}
)

func TestStartAndSolve(t *testing.T) {
	ctx := context.Background()
	hooks := &fakeHooks{}
	m := newManager(t, Options{Hooks: hooks})

	id, view, err := m.StartNewRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Len(t, view.Hints, 4)
	require.Len(t, hooks.started, 1)
	assert.Equal(t, "torch0", hooks.started[0].Group)

	view, accepted, err := m.SubmitGuess(ctx, id, stickGrid, stickRef)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.False(t, view.Result)

	view, accepted, err = m.SubmitGuess(ctx, id, stickGrid, stickRef)
	require.NoError(t, err)
	assert.False(t, accepted, "duplicate guess is a no-op")
	assert.Len(t, view.Tips, 1)

	view, accepted, err = m.SubmitGuess(ctx, id, torchGrid, torchRef)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.True(t, view.Result)

	assert.Len(t, hooks.guesses, 2)
	require.Len(t, hooks.solved, 1)
	assert.Equal(t, 2, hooks.solved[0].Guesses)
	assert.Equal(t, "p1", hooks.solved[0].Player)
}

func TestHookFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, Options{Hooks: &fakeHooks{fail: true}})
	id, _, err := m.StartNewRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	_, accepted, err := m.SubmitGuess(ctx, id, torchGrid, torchRef)
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, Options{})

	_, _, err := m.StartNewRiddle(ctx, "p1", gamemode.Mode(0))
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, _, err = m.StartNewRiddle(ctx, "p1", gamemode.Pocket)
	assert.ErrorIs(t, err, ErrNoEligibleGroup)

	_, _, err = m.SubmitGuess(ctx, "nope", torchGrid, torchRef)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Leaderboard(ctx, "", 0)
	assert.Error(t, err)
}

func TestDailyOncePerDay(t *testing.T) {
	ctx := context.Background()
	dd := &fakeDaily{played: map[string]bool{}}
	m := newManager(t, Options{Daily: dd})

	_, _, err := m.StartNewRiddle(ctx, "p1", gamemode.Daily)
	require.NoError(t, err)

	require.NoError(t, dd.InsertResult(ctx, daily.Result{PlayerID: "p1", Date: daily.DateKey(now)}))
	_, _, err = m.StartNewRiddle(ctx, "p1", gamemode.Daily)
	assert.ErrorIs(t, err, ErrDailyPlayed)

	_, _, err = m.StartNewRiddle(ctx, "p2", gamemode.Daily)
	assert.NoError(t, err)

	rows, err := m.Leaderboard(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResumeRestoresPersistedRiddle(t *testing.T) {
	ctx := context.Background()
	hooks := &fakeHooks{}
	games := &fakeGames{}
	m := newManager(t, Options{Hooks: hooks, Games: games})

	// nothing persisted: a new riddle starts
	id, _, err := m.ResumeRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	require.Len(t, hooks.started, 1)

	// still live in the store
	_, _, err = m.SubmitGuess(ctx, id, stickGrid, stickRef)
	require.NoError(t, err)
	r, err := m.store.Get(ctx, id)
	require.NoError(t, err)
	games.snap, games.ok = r.Snapshot(), true

	again, view, err := m.ResumeRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, view.Tips, 1)

	// evicted: restored from the snapshot
	m.store.Remove(ctx, id)
	again, view, err = m.ResumeRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Len(t, view.Tips, 1)
	assert.Len(t, hooks.started, 1, "resume does not start a game")

	_, accepted, err := m.SubmitGuess(ctx, id, stickGrid, stickRef)
	require.NoError(t, err)
	assert.False(t, accepted)

	// solved riddles are not resumed
	games.snap.State = game.StateSolved
	fresh, _, err := m.ResumeRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)
	assert.NotEqual(t, id, fresh)
}

func TestStaleDailyIsNotResumed(t *testing.T) {
	ctx := context.Background()
	games := &fakeGames{ok: true, snap: game.Snapshot{
		ID: "old", Player: "p1", Mode: gamemode.Daily, Group: "torch0",
		State: game.StateAwaitingGuess, StartedAt: now.AddDate(0, 0, -1),
	}}
	m := newManager(t, Options{Games: games})
	id, _, err := m.ResumeRiddle(ctx, "p1", gamemode.Daily)
	require.NoError(t, err)
	assert.NotEqual(t, "old", id)
}

func TestConcurrentGuessesAreSerialized(t *testing.T) {
	ctx := context.Background()
	hooks := &fakeHooks{}
	m := newManager(t, Options{Hooks: hooks})
	id, _, err := m.StartNewRiddle(ctx, "p1", gamemode.Classic)
	require.NoError(t, err)

	const n = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := m.SubmitGuess(ctx, id, stickGrid, stickRef)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	r, err := m.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Guesses())
	assert.Len(t, r.View().Tips, 1)
	assert.Len(t, hooks.guesses, 1)
}
