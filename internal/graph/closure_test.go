package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/recipes"
	rt "github.com/robalobadob/craftle/internal/recipes/recipetest"
)

// chain builds n shapeless recipes m0+m1, m1+m2, ... so the closure
// can walk the whole chain from m0.
func chain(n int) []*recipes.Recipe {
	out := make([]*recipes.Recipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rt.Shapeless(fmt.Sprintf("g%02d", i), fmt.Sprintf("r%02d", i),
			rt.Alt(fmt.Sprintf("m%d", i)), rt.Alt(fmt.Sprintf("m%d", i+1))))
	}
	return out
}

func TestSweepReachesLimit(t *testing.T) {
	res := Sweep([]recipes.Material{"m0"}, chain(30), Limit, entropy.New(1))
	assert.True(t, res.Reached)
	assert.GreaterOrEqual(t, res.Size(), Limit)
	assert.Equal(t, recipes.Material("m0"), res.Materials[0])
}

func TestSweepStopsAtSubLimitFixedPoint(t *testing.T) {
	res := Sweep([]recipes.Material{"m0"}, chain(5), Limit, entropy.New(1))
	assert.False(t, res.Reached)
	assert.Equal(t, 6, res.Size())
	// the last pass added nothing
	n := len(res.Sizes)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, res.Sizes[n-2], res.Sizes[n-1])
}

func TestSizesAreMonotonic(t *testing.T) {
	pool := chain(12)
	pool = append(pool,
		rt.Shaped("x", "x", map[int]recipes.AlternativeSet{0: rt.Alt("m3"), 1: rt.Alt("a", "b", "c"), 4: rt.Alt("d")}),
		rt.Shapeless("y", "y", rt.Alt("d"), rt.Alt("e", "f"), rt.Alt("g")),
	)
	for seed := int64(0); seed < 10; seed++ {
		src := entropy.New(seed)
		for _, res := range []Result{
			Sweep([]recipes.Material{"m0"}, pool, Limit, src),
			Shuffled([]recipes.Material{"m0"}, groupsOf(pool), Limit, src),
		} {
			for i := 1; i < len(res.Sizes); i++ {
				assert.GreaterOrEqual(t, res.Sizes[i], res.Sizes[i-1])
			}
		}
	}
}

func TestCoveredSlotsAreNotReplaced(t *testing.T) {
	pool := []*recipes.Recipe{
		rt.Shapeless("a", "a", rt.Alt("stick"), rt.Alt("oak_planks", "birch_planks")),
	}
	res := Sweep([]recipes.Material{"stick", "birch_planks"}, pool, Limit, entropy.New(3))
	assert.Equal(t, []recipes.Material{"stick", "birch_planks"}, res.Materials)
	assert.False(t, res.Reached)
}

func TestDisjointRecipesDoNotContribute(t *testing.T) {
	pool := []*recipes.Recipe{rt.Shapeless("a", "a", rt.Alt("x"), rt.Alt("y"))}
	res := Sweep([]recipes.Material{"stick"}, pool, Limit, entropy.New(3))
	assert.Equal(t, 1, res.Size())
}

func TestShuffledReachesLimit(t *testing.T) {
	res := Shuffled([]recipes.Material{"m0"}, groupsOf(chain(30)), Limit, entropy.New(9))
	assert.True(t, res.Reached)
}

func TestSeedPicksOnePerSlot(t *testing.T) {
	slots := []recipes.AlternativeSet{rt.Alt("a", "b"), rt.Alt("c"), rt.Alt("a", "b")}
	seed := Seed(slots, entropy.New(5))
	require.Len(t, seed, 3)
	assert.Contains(t, []recipes.Material{"a", "b"}, seed[0])
	assert.Equal(t, recipes.Material("c"), seed[1])
}

func groupsOf(rs []*recipes.Recipe) []*recipes.Group {
	var out []*recipes.Group
	idx := map[string]*recipes.Group{}
	for _, r := range rs {
		g, ok := idx[r.Group]
		if !ok {
			g = &recipes.Group{Key: r.Group}
			idx[r.Group] = g
			out = append(out, g)
		}
		g.Recipes = append(g.Recipes, r)
	}
	return out
}
