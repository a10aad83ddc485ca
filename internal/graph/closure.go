// internal/graph/closure.go
//
// Material support graph closure.
//
// Recipes are implicitly linked when they share a material. Starting from a
// seed set, any recipe whose alternatives intersect the working set adds one
// concrete representative for each of its slots that the set does not
// already cover. Expansion stops at a fixed point or once the set reaches
// the limit (20 by default).
//
// Two scan policies share that rule:
//   - Sweep:    every recipe in catalog order, each pass (eligibility checks);
//   - Shuffled: groups in random order, first intersecting recipe of each
//               group contributes (inventory construction).
//
// Representative picks come from the injected entropy source, so a sweep
// over the same catalog is reproducible for a fixed seed only.

package graph

import (
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/recipes"
)

// Limit is the working-set size treated as "large enough".
const Limit = 20

// Result describes one closure run.
type Result struct {
	// Materials in insertion order, seed first.
	Materials []recipes.Material
	// Sizes holds the set size after the seed and after every pass.
	Sizes []int
	// Reached reports whether the size limit was hit.
	Reached bool
}

// Size is the final working-set size.
func (r Result) Size() int { return len(r.Materials) }

type workingSet struct {
	order []recipes.Material
	has   map[recipes.Material]struct{}
}

func newWorkingSet(seed []recipes.Material) *workingSet {
	ws := &workingSet{has: make(map[recipes.Material]struct{}, Limit)}
	for _, m := range seed {
		ws.add(m)
	}
	return ws
}

func (ws *workingSet) add(m recipes.Material) bool {
	if _, ok := ws.has[m]; ok {
		return false
	}
	ws.has[m] = struct{}{}
	ws.order = append(ws.order, m)
	return true
}

func (ws *workingSet) covers(alt recipes.AlternativeSet) bool {
	for _, m := range alt {
		if _, ok := ws.has[m]; ok {
			return true
		}
	}
	return false
}

func (ws *workingSet) intersects(r *recipes.Recipe) bool {
	for _, alt := range r.Materials() {
		if ws.covers(alt) {
			return true
		}
	}
	return false
}

// contribute adds r's uncovered slots; it reports whether the set grew.
func (ws *workingSet) contribute(r *recipes.Recipe, src entropy.Source) bool {
	if !ws.intersects(r) {
		return false
	}
	grew := false
	for _, alt := range r.Materials() {
		if ws.covers(alt) {
			continue
		}
		if ws.add(entropy.Pick(src, alt)) {
			grew = true
		}
	}
	return grew
}

func (ws *workingSet) result(sizes []int, limit int) Result {
	return Result{Materials: ws.order, Sizes: sizes, Reached: len(ws.order) >= limit}
}

// Seed picks one concrete material per slot.
func Seed(slots []recipes.AlternativeSet, src entropy.Source) []recipes.Material {
	out := make([]recipes.Material, 0, len(slots))
	for _, alt := range slots {
		out = append(out, entropy.Pick(src, alt))
	}
	return out
}

// Sweep expands seed over pool, scanning every recipe in order each pass.
func Sweep(seed []recipes.Material, pool []*recipes.Recipe, limit int, src entropy.Source) Result {
	ws := newWorkingSet(seed)
	sizes := []int{len(ws.order)}
	for len(ws.order) < limit {
		grew := false
		for _, r := range pool {
			if ws.contribute(r, src) {
				grew = true
			}
			if len(ws.order) >= limit {
				break
			}
		}
		sizes = append(sizes, len(ws.order))
		if !grew {
			break
		}
	}
	return ws.result(sizes, limit)
}

// Shuffled expands seed over groups visited in random order; inside a
// group the first intersecting recipe (random order) contributes.
func Shuffled(seed []recipes.Material, groups []*recipes.Group, limit int, src entropy.Source) Result {
	ws := newWorkingSet(seed)
	sizes := []int{len(ws.order)}
	for len(ws.order) < limit {
		grew := false
		for _, g := range entropy.Shuffled(src, groups) {
			for _, r := range entropy.Shuffled(src, g.Recipes) {
				if !ws.intersects(r) {
					continue
				}
				if ws.contribute(r, src) {
					grew = true
				}
				break
			}
			if len(ws.order) >= limit {
				break
			}
		}
		sizes = append(sizes, len(ws.order))
		if !grew {
			break
		}
	}
	return ws.result(sizes, limit)
}
