// internal/game/types.go
//
// Core type definitions for a crafting riddle.
// Defines:
//   - State: guess state machine (awaiting guess -> solved | out of hearts).
//   - Ref: a claimed recipe (group key + recipe id).
//   - Tip: one accepted guess with its verdict table.
//   - View: the client-facing riddle payload.
//   - Snapshot: persistable state used to resume a riddle.

package game

import (
	"errors"
	"time"

	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
)

// State of a riddle.
//   - "awaiting_guess": the riddle accepts guesses.
//   - "solved":         a guess crafted the hidden recipe (terminal).
//   - "out_of_hearts":  hardcore only, all hearts spent (terminal).
type State string

const (
	StateAwaitingGuess State = "awaiting_guess"
	StateSolved        State = "solved"
	StateOutOfHearts   State = "out_of_hearts"
)

// Terminal reports whether no further guess can be accepted.
func (s State) Terminal() bool { return s == StateSolved || s == StateOutOfHearts }

// Ref names the recipe a player claims to have crafted.
type Ref struct {
	Group string `json:"group"`
	ID    string `json:"id"`
}

func (r Ref) key() string { return r.Group + "/" + r.ID }

// TipItem is the claimed recipe as shown in the guess history.
type TipItem struct {
	ID    string `json:"id"`
	Group string `json:"group"`
	Name  string `json:"name"`
	Src   string `json:"src"`
}

// Tip is one accepted guess.
type Tip struct {
	Item  TipItem       `json:"item"`
	Table []*match.Cell `json:"table"`
	Date  time.Time     `json:"date"`
}

// Ref returns the claimed recipe of the tip.
func (t Tip) Ref() Ref { return Ref{Group: t.Item.Group, ID: t.Item.ID} }

// View is what clients receive after start, resume and every guess.
// Hints always has four entries (null while locked); Hearts is null
// outside hardcore.
type View struct {
	Items   []items.Item     `json:"items"`
	Recipes recipes.Snapshot `json:"recipes"`
	Tips    []Tip            `json:"tips"`
	Hints   []*string        `json:"hints"`
	Hearts  *int             `json:"hearts"`
	Result  bool             `json:"result"`
}

// Snapshot is the persistable part of a riddle. The template recipe is
// not part of it; it only seeds hints, which are stored verbatim.
type Snapshot struct {
	ID        string
	Player    string
	Mode      gamemode.Mode
	Group     string
	Hints     []string
	Inventory []recipes.Material
	Tips      []Tip
	State     State
	StartedAt time.Time
}

// Outcome reports what ApplyGuess did.
type Outcome struct {
	Accepted bool
	// Reason is set when the guess was rejected.
	Reason  error
	Tip     Tip
	Result  match.Result
	State   State
	Guesses int
}

var (
	ErrNoEligibleGroup = errors.New("game: no recipe group eligible for gamemode")
	ErrUnknownGroup    = errors.New("game: unknown recipe group")

	// Guess rejections; reported through Outcome.Reason, never to clients.
	ErrFinished       = errors.New("game: riddle is finished")
	ErrGridMismatch   = errors.New("game: submission does not match grid size")
	ErrUnknownRecipe  = errors.New("game: unknown recipe")
	ErrAlreadyGuessed = errors.New("game: recipe already guessed")
	ErrOutOfScript    = errors.New("game: guess does not follow the tutorial")
	ErrNotCrafted     = errors.New("game: submission does not craft the claimed recipe")
	ErrNotInInventory = errors.New("game: material outside the inventory")
)
