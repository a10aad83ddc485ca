// internal/match/types.go
//
// Scoring results.
// Defines:
//   - Mark: per-cell verdict (correct / semi-correct / wrong).
//   - Cell: one scored submission cell.
//   - Result: verdict table, correct count and solved flag.

package match

import (
	"errors"

	"github.com/robalobadob/craftle/internal/recipes"
)

// Mark is the verdict for one submitted cell.
//   - "correct":      material satisfies the slot at this position
//                     (or, shapeless, any remaining required/optional entry);
//   - "semi-correct": material belongs to the recipe but not here;
//   - "wrong":        material is not part of the recipe (any more).
type Mark string

const (
	MarkCorrect     Mark = "correct"
	MarkSemiCorrect Mark = "semi-correct"
	MarkWrong       Mark = "wrong"

	markWait Mark = "wait" // provisional, never returned
)

// Cell is a scored, non-empty submission cell.
type Cell struct {
	Item   recipes.Material `json:"item"`
	Status Mark             `json:"status"`
}

// Result is the outcome of scoring one submission.
// Cells has one entry per grid position; nil marks an empty (unscored) cell.
type Result struct {
	Cells   []*Cell `json:"result"`
	Matches int     `json:"matches"`
	Solved  bool    `json:"solved"`
}

// ErrGridSize means a submission reached the engine with the wrong
// dimensions; callers are expected to validate first.
var ErrGridSize = errors.New("match: submission does not fit the grid")
