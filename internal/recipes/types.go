// internal/recipes/types.go
//
// Canonical recipe model.
// Defines:
//   - Material / AlternativeSet: a slot accepts any one of its alternatives.
//   - Grid: rows of slots, nil meaning an empty slot.
//   - Shape: sum type over Shaped and Shapeless.
//   - Recipe / Group: identity shell and the variants crafting one output.

package recipes

import (
	"sort"
	"strings"

	"github.com/robalobadob/craftle/internal/gamemode"
)

// Material identifies a concrete item.
type Material string

// AlternativeSet is a non-empty set of interchangeable materials.
type AlternativeSet []Material

// Contains reports whether m satisfies the slot.
func (a AlternativeSet) Contains(m Material) bool {
	for _, x := range a {
		if x == m {
			return true
		}
	}
	return false
}

// Key is an order-independent identity used for set comparisons.
func (a AlternativeSet) Key() string {
	ss := make([]string, len(a))
	for i, m := range a {
		ss[i] = string(m)
	}
	sort.Strings(ss)
	return strings.Join(ss, "|")
}

// Equal compares as sets; two nil slots are equal.
func (a AlternativeSet) Equal(b AlternativeSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Grid is a row-major arrangement of slots.
type Grid [][]AlternativeSet

// Rows returns the row count.
func (g Grid) Rows() int { return len(g) }

// Cols returns the width of the widest row.
func (g Grid) Cols() int {
	n := 0
	for _, row := range g {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// At returns the slot at (r, c), nil when out of range or empty.
func (g Grid) At(r, c int) AlternativeSet {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return nil
	}
	return g[r][c]
}

// Occupied lists the non-empty slots in row-major order.
func (g Grid) Occupied() []AlternativeSet {
	var out []AlternativeSet
	for _, row := range g {
		for _, cell := range row {
			if cell != nil {
				out = append(out, cell)
			}
		}
	}
	return out
}

// Trim removes all-empty border rows and columns, returning the minimal
// bounding box. An all-empty grid trims to an empty Grid.
func (g Grid) Trim() Grid {
	top, bottom := -1, -1
	left, right := -1, -1
	for r, row := range g {
		for c, cell := range row {
			if cell == nil {
				continue
			}
			if top < 0 {
				top = r
			}
			bottom = r
			if left < 0 || c < left {
				left = c
			}
			if c > right {
				right = c
			}
		}
	}
	if top < 0 {
		return Grid{}
	}
	out := make(Grid, 0, bottom-top+1)
	for r := top; r <= bottom; r++ {
		row := make([]AlternativeSet, right-left+1)
		for c := left; c <= right; c++ {
			row[c-left] = g.At(r, c)
		}
		out = append(out, row)
	}
	return out
}

// Mirror flips the grid left to right.
func (g Grid) Mirror() Grid {
	w := g.Cols()
	out := make(Grid, len(g))
	for r := range g {
		row := make([]AlternativeSet, w)
		for c := 0; c < w; c++ {
			row[w-1-c] = g.At(r, c)
		}
		out[r] = row
	}
	return out
}

// Symmetric reports whether the grid equals its horizontal mirror.
func (g Grid) Symmetric() bool {
	w := g.Cols()
	for r := range g {
		for c := 0; c < w/2; c++ {
			if !g.At(r, c).Equal(g.At(r, w-1-c)) {
				return false
			}
		}
	}
	return true
}

// Shape is implemented by Shaped and Shapeless only.
type Shape interface {
	// Materials lists the required slots. Callers must copy before mutating.
	Materials() []AlternativeSet
	isShape()
}

// Shaped is a layout-sensitive recipe.
type Shaped struct {
	Grid Grid
}

func (s *Shaped) Materials() []AlternativeSet { return s.Grid.Occupied() }
func (*Shaped) isShape()                      {}

// Shapeless is defined by an unordered multiset of slots plus optional extras.
type Shapeless struct {
	Required []AlternativeSet
	Optional []Material
}

func (s *Shapeless) Materials() []AlternativeSet { return s.Required }
func (*Shapeless) isShape()                      {}

// Recipe is one way of crafting a group's output.
type Recipe struct {
	ID        string
	Name      string
	Src       string
	Group     string
	Shape     Shape
	Gamemodes gamemode.Set
}

// Materials returns the recipe's required slots.
func (r *Recipe) Materials() []AlternativeSet { return r.Shape.Materials() }

// IsShapeless reports the recipe kind.
func (r *Recipe) IsShapeless() bool {
	_, ok := r.Shape.(*Shapeless)
	return ok
}

// SlotCount is the minimum number of occupied cells needed to craft it.
func (r *Recipe) SlotCount() int { return len(r.Materials()) }

// Uses reports whether m appears among any of the recipe's alternatives.
func (r *Recipe) Uses(m Material) bool {
	for _, alt := range r.Materials() {
		if alt.Contains(m) {
			return true
		}
	}
	return false
}

// Group bundles the recipes crafting one output item.
type Group struct {
	Key     string
	Recipes []*Recipe
}

// Modes returns the eligibility shared by every member.
func (g *Group) Modes() gamemode.Set {
	if len(g.Recipes) == 0 {
		return nil
	}
	return g.Recipes[0].Gamemodes
}
