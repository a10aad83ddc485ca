package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
	rt "github.com/robalobadob/craftle/internal/recipes/recipetest"
)

var (
	fixedNow = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	allModes = gamemode.NewSet(gamemode.Classic, gamemode.Daily, gamemode.AllInOne, gamemode.Resource, gamemode.Hardcore)
)

func sub(cells map[int]string) match.Submission {
	s := make(match.Submission, 9)
	for i, m := range cells {
		s[i] = recipes.Material(m)
	}
	return s
}

func newEnv(t *testing.T, rs ...*recipes.Recipe) *Env {
	t.Helper()
	cat := rt.Catalog(t, allModes, rs...)
	seen := map[recipes.Material]bool{}
	var list []items.Item
	addItem := func(m recipes.Material) {
		if !seen[m] {
			seen[m] = true
			list = append(list, items.Item{ID: m, Name: string(m)})
		}
	}
	for _, r := range cat.All() {
		for _, alt := range r.Materials() {
			for _, m := range alt {
				addItem(m)
			}
		}
	}
	for _, r := range cat.All() {
		addItem(recipes.Material(r.ID))
	}
	ic, err := items.New(list)
	require.NoError(t, err)
	return &Env{
		Recipes: cat,
		Items:   ic,
		Rand:    entropy.New(7),
		Clock:   func() time.Time { return fixedNow },
	}
}

func craftingEnv(t *testing.T) *Env {
	return newEnv(t,
		rt.Shaped("torch0", "torch", map[int]recipes.AlternativeSet{0: rt.Alt("coal"), 3: rt.Alt("stick")}),
		rt.Shaped("stick0", "stick", map[int]recipes.AlternativeSet{0: rt.Alt("planks"), 3: rt.Alt("planks")}),
		rt.Shaped("table0", "table", map[int]recipes.AlternativeSet{
			0: rt.Alt("planks"), 1: rt.Alt("planks"), 3: rt.Alt("planks"), 4: rt.Alt("planks"),
		}),
	)
}

// chainEnv has n+1 single-cell groups g0..gn, each crafted from m<i>.
func chainEnv(t *testing.T, n int) *Env {
	var rs []*recipes.Recipe
	for i := 0; i <= n; i++ {
		rs = append(rs, rt.Shaped(fmt.Sprintf("g%d", i), fmt.Sprintf("r%d", i),
			map[int]recipes.AlternativeSet{0: rt.Alt(fmt.Sprintf("m%d", i))}))
	}
	return newEnv(t, rs...)
}

func chainGuess(r *Riddle, i int) Outcome {
	return r.ApplyGuess(sub(map[int]string{0: fmt.Sprintf("m%d", i)}),
		Ref{Group: fmt.Sprintf("g%d", i), ID: fmt.Sprintf("r%d", i)}, nil)
}

var (
	torchGrid = sub(map[int]string{0: "coal", 3: "stick"})
	torchRef  = Ref{Group: "torch0", ID: "torch"}
	stickGrid = sub(map[int]string{0: "planks", 3: "planks"})
	stickRef  = Ref{Group: "stick0", ID: "stick"}
)

func TestNewClassic(t *testing.T) {
	env := craftingEnv(t)
	r, err := New(env, "p1", gamemode.Classic)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Contains(t, []string{"torch0", "stick0", "table0"}, r.Group)
	assert.Equal(t, r.Group, r.Template().Group)
	assert.Equal(t, StateAwaitingGuess, r.State())

	v := r.View()
	assert.Equal(t, env.Items.All(), v.Items)
	assert.Len(t, v.Hints, 4)
	for _, h := range v.Hints {
		assert.Nil(t, h)
	}
	assert.Nil(t, v.Hearts)
	assert.False(t, v.Result)
	assert.NotNil(t, v.Tips)
	assert.Len(t, r.Snapshot().Hints, 4)
}

func TestPickGroupErrors(t *testing.T) {
	env := craftingEnv(t)
	_, err := New(env, "p", gamemode.Mode(9))
	assert.ErrorIs(t, err, gamemode.ErrUnknownMode)

	_, err = New(env, "p", gamemode.Pocket)
	assert.ErrorIs(t, err, ErrNoEligibleGroup)

	_, err = New(env, "p", gamemode.Tutorial)
	assert.ErrorIs(t, err, ErrUnknownGroup, "default tutorial group is missing")
}

func TestCorrectGuessSolves(t *testing.T) {
	env := craftingEnv(t)
	r, err := start(env, "id", "p", gamemode.Classic, "torch0", fixedNow)
	require.NoError(t, err)

	var called Outcome
	out := r.ApplyGuess(torchGrid, torchRef, func(o Outcome) { called = o })
	require.True(t, out.Accepted)
	assert.True(t, out.Result.Solved)
	assert.Equal(t, StateSolved, out.State)
	assert.Equal(t, out.Tip, called.Tip)
	assert.Equal(t, fixedNow, out.Tip.Date)
	assert.Equal(t, "torch", out.Tip.Item.Name)
	assert.True(t, r.View().Result)

	again := r.ApplyGuess(stickGrid, stickRef, nil)
	assert.False(t, again.Accepted)
	assert.ErrorIs(t, again.Reason, ErrFinished)
	assert.Equal(t, 1, r.Guesses())
}

func TestWrongGuessIsRecordedOnce(t *testing.T) {
	env := craftingEnv(t)
	r, err := start(env, "id", "p", gamemode.Classic, "torch0", fixedNow)
	require.NoError(t, err)

	out := r.ApplyGuess(stickGrid, stickRef, nil)
	require.True(t, out.Accepted)
	assert.False(t, out.Result.Solved)
	assert.Equal(t, match.MarkWrong, out.Tip.Table[0].Status)
	assert.Equal(t, match.MarkWrong, out.Tip.Table[3].Status)
	assert.Nil(t, out.Tip.Table[1])

	dup := r.ApplyGuess(stickGrid, stickRef, nil)
	assert.False(t, dup.Accepted)
	assert.ErrorIs(t, dup.Reason, ErrAlreadyGuessed)
	assert.Equal(t, 1, r.Guesses())
	assert.Len(t, r.View().Tips, 1)
}

func TestRejections(t *testing.T) {
	env := craftingEnv(t)
	r, err := start(env, "id", "p", gamemode.Classic, "torch0", fixedNow)
	require.NoError(t, err)

	cases := []struct {
		name string
		sub  match.Submission
		ref  Ref
		want error
	}{
		{"grid size", make(match.Submission, 4), torchRef, ErrGridMismatch},
		{"unknown recipe", torchGrid, Ref{Group: "torch0", ID: "lantern"}, ErrUnknownRecipe},
		{"unknown group", torchGrid, Ref{Group: "nope", ID: "torch"}, ErrUnknownRecipe},
		{"not crafted", sub(map[int]string{0: "coal"}), stickRef, ErrNotCrafted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := r.ApplyGuess(tc.sub, tc.ref, func(Outcome) { t.Fatal("accept callback on rejection") })
			assert.False(t, out.Accepted)
			assert.ErrorIs(t, out.Reason, tc.want)
		})
	}
	assert.Equal(t, 0, r.Guesses())
}

func TestHardcoreRunsOutOfHearts(t *testing.T) {
	env := chainEnv(t, gamemode.Hearts)
	hidden := fmt.Sprintf("g%d", gamemode.Hearts)
	r, err := start(env, "id", "p", gamemode.Hardcore, hidden, fixedNow)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.True(t, chainGuess(r, i).Accepted)
	}
	v := r.View()
	require.NotNil(t, v.Hearts)
	assert.Equal(t, gamemode.Hearts-3, *v.Hearts)

	for i := 3; i < gamemode.Hearts; i++ {
		out := chainGuess(r, i)
		require.True(t, out.Accepted)
	}
	assert.Equal(t, StateOutOfHearts, r.State())
	v = r.View()
	assert.Equal(t, 0, *v.Hearts)
	assert.False(t, v.Result)
	for _, h := range v.Hints {
		assert.Nil(t, h, "hardcore has no hints")
	}

	out := chainGuess(r, gamemode.Hearts)
	assert.ErrorIs(t, out.Reason, ErrFinished)
}

func TestHintsRevealEveryFiveGuesses(t *testing.T) {
	env := chainEnv(t, 12)
	r, err := start(env, "id", "p", gamemode.Classic, "g12", fixedNow)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.True(t, chainGuess(r, i).Accepted)
	}
	assert.Nil(t, r.View().Hints[0])

	require.True(t, chainGuess(r, 4).Accepted)
	v := r.View()
	require.NotNil(t, v.Hints[0])
	assert.Equal(t, "This recipe requires minimum 1 slots.", *v.Hints[0])
	assert.Nil(t, v.Hints[1])

	for i := 5; i < 10; i++ {
		require.True(t, chainGuess(r, i).Accepted)
	}
	assert.NotNil(t, r.View().Hints[1])
	assert.Nil(t, r.View().Hints[2])
}

func TestTutorialFollowsScript(t *testing.T) {
	env := craftingEnv(t)
	env.TutorialGroup = "torch0"
	env.TutorialScript = []string{"stick0", "torch0"}

	r, err := New(env, "p", gamemode.Tutorial)
	require.NoError(t, err)
	assert.Equal(t, "torch0", r.Group)

	out := r.ApplyGuess(torchGrid, torchRef, nil)
	assert.ErrorIs(t, out.Reason, ErrOutOfScript)

	require.True(t, r.ApplyGuess(stickGrid, stickRef, nil).Accepted)
	out = r.ApplyGuess(torchGrid, torchRef, nil)
	require.True(t, out.Accepted)
	assert.Equal(t, StateSolved, out.State)
}

func TestResourceInventoryIsRestricted(t *testing.T) {
	env := craftingEnv(t)
	r, err := start(env, "id", "p", gamemode.Resource, "torch0", fixedNow)
	require.NoError(t, err)

	v := r.View()
	var ids []recipes.Material
	for _, it := range v.Items {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []recipes.Material{"coal", "stick"}, ids)

	out := r.ApplyGuess(stickGrid, stickRef, nil)
	assert.ErrorIs(t, out.Reason, ErrNotInInventory)

	require.True(t, r.ApplyGuess(torchGrid, torchRef, nil).Accepted)
	assert.Equal(t, []recipes.Material{"coal", "stick"}, r.Snapshot().Inventory)
}

func TestDailyIsDeterministic(t *testing.T) {
	env := chainEnv(t, 20)
	env.DailySalt = "salt"
	a, err := New(env, "p1", gamemode.Daily)
	require.NoError(t, err)
	b, err := New(env, "p2", gamemode.Daily)
	require.NoError(t, err)
	assert.Equal(t, a.Group, b.Group)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRestoreRoundTrip(t *testing.T) {
	env := craftingEnv(t)
	r, err := start(env, "id", "p", gamemode.Classic, "torch0", fixedNow)
	require.NoError(t, err)
	require.True(t, r.ApplyGuess(stickGrid, stickRef, nil).Accepted)

	snap := r.Snapshot()
	back, err := Restore(env, snap)
	require.NoError(t, err)

	assert.Equal(t, "id", back.ID)
	assert.Equal(t, 1, back.Guesses())
	assert.Equal(t, snap.Hints, back.Snapshot().Hints)
	assert.Equal(t, r.View().Tips, back.View().Tips)
	assert.ErrorIs(t, back.ApplyGuess(stickGrid, stickRef, nil).Reason, ErrAlreadyGuessed)
	assert.True(t, back.ApplyGuess(torchGrid, torchRef, nil).Accepted)

	_, err = Restore(env, Snapshot{ID: "x", Mode: gamemode.Classic, Group: "missing"})
	assert.ErrorIs(t, err, ErrUnknownGroup)
}
