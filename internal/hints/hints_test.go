package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/recipes"
	rt "github.com/robalobadob/craftle/internal/recipes/recipetest"
)

func TestVisibleReleaseSchedule(t *testing.T) {
	all := []string{"one", "two", "three", "four"}

	assert.Equal(t, []*string{nil, nil, nil, nil}, Visible(all, 4))

	v := Visible(all, 5)
	require.NotNil(t, v[0])
	assert.Equal(t, "one", *v[0])
	assert.Nil(t, v[1])
	assert.Nil(t, v[2])
	assert.Nil(t, v[3])

	v = Visible(all, 20)
	for i := range v {
		require.NotNil(t, v[i])
		assert.Equal(t, all[i], *v[i])
	}
}

func TestVisibleWithoutHints(t *testing.T) {
	v := Visible(nil, 30)
	assert.Len(t, v, Count)
	for _, h := range v {
		assert.Nil(t, h)
	}
}

func TestGenerate(t *testing.T) {
	torch := rt.Shaped("torch0", "torch", map[int]recipes.AlternativeSet{0: rt.Alt("coal", "charcoal"), 3: rt.Alt("stick")})
	torch.Name = "Torch"
	ladder := rt.Shapeless("ladder0", "ladder", rt.Alt("stick"))
	ladder.Name = "Ladder"
	unrelated := rt.Shapeless("book0", "book", rt.Alt("paper"), rt.Alt("leather"))
	cat := rt.Catalog(t, gamemode.NewSet(gamemode.AllInOne), torch, ladder, unrelated)

	names := map[recipes.Material]string{"coal": "Coal", "charcoal": "Charcoal", "stick": "Stick"}
	got := Generate(torch, cat, func(m recipes.Material) string { return names[m] }, entropy.New(3))

	require.Len(t, got, Count)
	assert.Equal(t, "This recipe requires minimum 2 slots.", got[0])
	assert.Equal(t, "At least 1 material is shared with this recipe: Ladder", got[1])
	assert.Contains(t, []string{
		"Random material from this recipe: Coal",
		"Random material from this recipe: Charcoal",
		"Random material from this recipe: Stick",
	}, got[2])
	assert.Equal(t, "The item you need to think about is Torch", got[3])
}

func TestGenerateWithoutOverlap(t *testing.T) {
	a := rt.Shapeless("a0", "a", rt.Alt("x"))
	b := rt.Shapeless("b0", "b", rt.Alt("y"))
	cat := rt.Catalog(t, gamemode.NewSet(gamemode.AllInOne), a, b)
	got := Generate(a, cat, nil, entropy.New(1))
	assert.Equal(t, noOverlap, got[1])
	assert.Equal(t, "Random material from this recipe: x", got[2])
}
