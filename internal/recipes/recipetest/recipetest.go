// Package recipetest builds recipes and catalogs for tests in other packages.
package recipetest

import (
	"testing"

	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/recipes"
)

// Alt builds an alternative set.
func Alt(ms ...string) recipes.AlternativeSet {
	out := make(recipes.AlternativeSet, len(ms))
	for i, m := range ms {
		out[i] = recipes.Material(m)
	}
	return out
}

// Shaped builds a shaped recipe from index-keyed slots (0..8, row-major 3x3).
func Shaped(group, id string, slots map[int]recipes.AlternativeSet) *recipes.Recipe {
	maxIdx := 0
	for i := range slots {
		if i > maxIdx {
			maxIdx = i
		}
	}
	var g recipes.Grid
	for r := 0; r <= maxIdx/3; r++ {
		row := make([]recipes.AlternativeSet, 3)
		for c := 0; c < 3; c++ {
			row[c] = slots[r*3+c]
		}
		g = append(g, row)
	}
	return &recipes.Recipe{ID: id, Name: id, Group: group, Shape: &recipes.Shaped{Grid: g}}
}

// Shapeless builds a shapeless recipe.
func Shapeless(group, id string, required ...recipes.AlternativeSet) *recipes.Recipe {
	return &recipes.Recipe{ID: id, Name: id, Group: group, Shape: &recipes.Shapeless{Required: required}}
}

// Catalog groups rs by their Group field and freezes them. Recipes
// without eligibility get the given modes.
func Catalog(t testing.TB, modes gamemode.Set, rs ...*recipes.Recipe) *recipes.Catalog {
	t.Helper()
	byKey := map[string]*recipes.Group{}
	var order []*recipes.Group
	for _, r := range rs {
		if r.Gamemodes == nil {
			r.Gamemodes = modes.Clone()
		}
		g, ok := byKey[r.Group]
		if !ok {
			g = &recipes.Group{Key: r.Group}
			byKey[r.Group] = g
			order = append(order, g)
		}
		g.Recipes = append(g.Recipes, r)
	}
	c, err := recipes.NewCatalog(order)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}
