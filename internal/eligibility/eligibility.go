// internal/eligibility/eligibility.go
//
// Gamemode eligibility per recipe group.
//
// Rules (evaluated on a group's first recipe, copied onto every member):
//   - AllInOne (4) always.
//   - Self-crafting recipes (own id among their alternatives) stop there.
//   - Otherwise Classic, Daily and Hardcore (2, 3, 7).
//   - Resource (6) when the material closure seeded from the recipe
//     reaches graph.Limit over the whole catalog.
//   - Pocket (5) when the footprint fits a 2x2 grid: shapeless with at
//     most 4 required entries, or a shaped grid trimming below 3x3.
//
// The Resource check is a single randomized sample; pin the entropy seed
// to make classification reproducible.

package eligibility

import (
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/graph"
	"github.com/robalobadob/craftle/internal/recipes"
)

// maxPocketSlots bounds a shapeless recipe playable on a 2x2 grid.
const maxPocketSlots = 4

// Traits are the facts eligibility was derived from.
type Traits struct {
	MultiMaterial bool `json:"multiMaterial"`
	SelfCraft     bool `json:"selfCraft"`
	Compact       bool `json:"compact"`
	GraphSize     int  `json:"graphSize"`
}

// Classify computes the gamemodes r supports against pool.
func Classify(r *recipes.Recipe, pool []*recipes.Recipe, src entropy.Source) (gamemode.Set, Traits) {
	mats := r.Materials()
	tr := Traits{
		MultiMaterial: distinct(mats) > 1,
		SelfCraft:     r.Uses(recipes.Material(r.ID)),
		Compact:       Compact(r),
	}
	modes := gamemode.NewSet(gamemode.AllInOne)
	if tr.SelfCraft {
		return modes, tr
	}
	modes = modes.Add(gamemode.Classic).Add(gamemode.Daily).Add(gamemode.Hardcore)

	closure := graph.Sweep(graph.Seed(mats, src), pool, graph.Limit, src)
	tr.GraphSize = closure.Size()
	if closure.Reached {
		modes = modes.Add(gamemode.Resource)
	}
	if tr.Compact {
		modes = modes.Add(gamemode.Pocket)
	}
	return modes, tr
}

// Compact reports whether r can be crafted on a 2x2 grid.
func Compact(r *recipes.Recipe) bool {
	switch s := r.Shape.(type) {
	case *recipes.Shapeless:
		return len(s.Required) <= maxPocketSlots
	case *recipes.Shaped:
		t := s.Grid.Trim()
		return t.Rows() < 3 && t.Cols() < 3
	}
	return false
}

// Annotate classifies every group from its first recipe and stores the
// result on all members. It returns the traits per group key.
func Annotate(groups []*recipes.Group, src entropy.Source) map[string]Traits {
	var pool []*recipes.Recipe
	for _, g := range groups {
		pool = append(pool, g.Recipes...)
	}
	out := make(map[string]Traits, len(groups))
	for _, g := range groups {
		if len(g.Recipes) == 0 {
			continue
		}
		modes, tr := Classify(g.Recipes[0], pool, src)
		for _, r := range g.Recipes {
			r.Gamemodes = modes.Clone()
		}
		out[g.Key] = tr
	}
	return out
}

func distinct(alts []recipes.AlternativeSet) int {
	seen := make(map[string]struct{}, len(alts))
	for _, a := range alts {
		seen[a.Key()] = struct{}{}
	}
	return len(seen)
}
