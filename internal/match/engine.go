// internal/match/engine.go
//
// Pure scoring of a submitted crafting grid against a recipe group.
//
// Shaped recipes:
//   1. Trim the recipe to its bounding box and place it at every offset
//      that fits the grid (row offset outer, column offset inner); add the
//      horizontal mirror of each placement unless the shape is symmetric.
//   2. Score each candidate in two passes, the same way Wordle resolves
//      repeated letters:
//        pass 1 - cells whose slot accepts the material are "correct" and
//                 consume one matching entry of the required multiset;
//        pass 2 - remaining cells consume a matching entry if one is left
//                 ("semi-correct"), otherwise they are "wrong".
//      The greedy reconciliation is not a maximum bipartite matching.
//   3. Solved iff correct == required slots == filled cells.
//
// Shapeless recipes are position independent: every item consumes a
// required entry, else an optional one, else it is wrong.
//
// Selection across recipes and candidates keeps the highest correct count.
// Ties keep the first result encountered (recipe order, then
// translations, then mirrors).

package match

import (
	"errors"

	"github.com/robalobadob/craftle/internal/recipes"
)

// Submission is a flat, row-major grid; the empty string marks an empty cell.
type Submission []recipes.Material

// Filled counts non-empty cells.
func (s Submission) Filled() int {
	n := 0
	for _, m := range s {
		if m != "" {
			n++
		}
	}
	return n
}

var errNoTargets = errors.New("match: no target recipes")

// Score compares sub against every recipe of a group and returns the best result.
func Score(targets []*recipes.Recipe, sub Submission, gridSize int) (Result, error) {
	if err := checkGrid(sub, gridSize); err != nil {
		return Result{}, err
	}
	if len(targets) == 0 {
		return Result{}, errNoTargets
	}
	var best *Result
	consider := func(res Result) {
		if best == nil || res.Matches > best.Matches {
			r := res
			best = &r
		}
	}
	for _, r := range targets {
		switch s := r.Shape.(type) {
		case *recipes.Shaped:
			for _, cand := range candidatesOrBlank(s.Grid, gridSize) {
				consider(scoreCandidate(cand, s.Materials(), sub, gridSize))
			}
		case *recipes.Shapeless:
			consider(scoreShapeless(s, sub))
		}
	}
	return *best, nil
}

// ScoreRecipe scores sub against a single recipe.
func ScoreRecipe(r *recipes.Recipe, sub Submission, gridSize int) (Result, error) {
	return Score([]*recipes.Recipe{r}, sub, gridSize)
}

func checkGrid(sub Submission, gridSize int) error {
	if (gridSize != 2 && gridSize != 3) || len(sub) != gridSize*gridSize {
		return ErrGridSize
	}
	return nil
}

// Translations places an already trimmed shape at every offset that fits
// a gridSize x gridSize grid. A shape larger than the grid yields none.
func Translations(shape recipes.Grid, gridSize int) []recipes.Grid {
	rows, cols := shape.Rows(), shape.Cols()
	if rows == 0 || rows > gridSize || cols > gridSize {
		return nil
	}
	out := make([]recipes.Grid, 0, (gridSize-rows+1)*(gridSize-cols+1))
	for i := 0; i <= gridSize-rows; i++ {
		for j := 0; j <= gridSize-cols; j++ {
			g := make(recipes.Grid, gridSize)
			for r := range g {
				g[r] = make([]recipes.AlternativeSet, gridSize)
			}
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					g[i+r][j+c] = shape.At(r, c)
				}
			}
			out = append(out, g)
		}
	}
	return out
}

// Candidates trims grid and returns its translations followed by their
// mirrors (omitted when the trimmed shape is left-right symmetric).
func Candidates(grid recipes.Grid, gridSize int) []recipes.Grid {
	shape := grid.Trim()
	base := Translations(shape, gridSize)
	if shape.Symmetric() {
		return base
	}
	out := append([]recipes.Grid(nil), base...)
	for _, g := range base {
		out = append(out, g.Mirror())
	}
	return out
}

func candidatesOrBlank(grid recipes.Grid, gridSize int) []recipes.Grid {
	if c := Candidates(grid, gridSize); len(c) > 0 {
		return c
	}
	blank := make(recipes.Grid, gridSize)
	for r := range blank {
		blank[r] = make([]recipes.AlternativeSet, gridSize)
	}
	return []recipes.Grid{blank}
}

func scoreCandidate(cand recipes.Grid, required []recipes.AlternativeSet, sub Submission, gridSize int) Result {
	pool := append([]recipes.AlternativeSet(nil), required...)
	cells := make([]*Cell, len(sub))
	correct := 0

	for i, m := range sub {
		if m == "" {
			continue
		}
		if cand.At(i/gridSize, i%gridSize).Contains(m) {
			cells[i] = &Cell{Item: m, Status: MarkCorrect}
			correct++
			pool, _ = take(pool, m)
		} else {
			cells[i] = &Cell{Item: m, Status: markWait}
		}
	}

	for _, cell := range cells {
		if cell == nil || cell.Status != markWait {
			continue
		}
		var ok bool
		if pool, ok = take(pool, cell.Item); ok {
			cell.Status = MarkSemiCorrect
		} else {
			cell.Status = MarkWrong
		}
	}

	return Result{
		Cells:   cells,
		Matches: correct,
		Solved:  correct == len(required) && correct == sub.Filled(),
	}
}

func scoreShapeless(s *recipes.Shapeless, sub Submission) Result {
	required := append([]recipes.AlternativeSet(nil), s.Required...)
	optional := append([]recipes.Material(nil), s.Optional...)
	cells := make([]*Cell, len(sub))
	correct := 0
	wrongSeen := false

	for i, m := range sub {
		if m == "" {
			continue
		}
		var ok bool
		if required, ok = take(required, m); !ok {
			optional, ok = takeExact(optional, m)
		}
		if ok {
			cells[i] = &Cell{Item: m, Status: MarkCorrect}
			correct++
			continue
		}
		cells[i] = &Cell{Item: m, Status: MarkWrong}
		wrongSeen = true
	}

	return Result{
		Cells:   cells,
		Matches: correct,
		Solved:  len(required) == 0 && !wrongSeen,
	}
}

// take removes the first entry accepting m.
func take(pool []recipes.AlternativeSet, m recipes.Material) ([]recipes.AlternativeSet, bool) {
	for i, alt := range pool {
		if alt.Contains(m) {
			return append(pool[:i], pool[i+1:]...), true
		}
	}
	return pool, false
}

func takeExact(pool []recipes.Material, m recipes.Material) ([]recipes.Material, bool) {
	for i, x := range pool {
		if x == m {
			return append(pool[:i], pool[i+1:]...), true
		}
	}
	return pool, false
}
