// internal/game/engine.go
//
// Riddle lifecycle for a single player session.
// Responsibilities:
//   - Pick the hidden recipe group for a gamemode (tutorial pin, daily
//     schedule, or uniform among eligible groups) and a template recipe.
//   - Build the inventory: the restricted closure in resource mode, the
//     whole item catalog otherwise.
//   - Generate hints (none in hardcore).
//   - Validate and apply guesses, tracking awaiting -> solved/out of hearts.
//
// Notes:
//   - A Riddle is safe for concurrent use; ApplyGuess serializes on the
//     riddle's own mutex and runs the accept callback while holding it.
//   - Rejected guesses are silent: state is untouched, Outcome.Reason says why.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/craftle/internal/daily"
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/gamemode"
	"github.com/robalobadob/craftle/internal/graph"
	"github.com/robalobadob/craftle/internal/hints"
	"github.com/robalobadob/craftle/internal/items"
	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
)

const (
	DefaultTutorialGroup = "axe0"
	DefaultDailySalt     = "local_dev_salt"
)

// DefaultTutorialScript lists the group expected at each tutorial step.
var DefaultTutorialScript = []string{"planks0", "armorStand0", "rail0", "piston0", "axe0"}

// Env carries the read-only catalogs and knobs shared by all riddles.
type Env struct {
	Recipes        *recipes.Catalog
	Items          *items.Catalog
	Rand           entropy.Source
	Clock          func() time.Time
	DailySalt      string
	TutorialGroup  string
	TutorialScript []string
}

// Now is the environment clock, in UTC.
func (e *Env) Now() time.Time {
	if e.Clock != nil {
		return e.Clock().UTC()
	}
	return time.Now().UTC()
}

func (e *Env) tutorialGroup() string {
	if e.TutorialGroup != "" {
		return e.TutorialGroup
	}
	return DefaultTutorialGroup
}

func (e *Env) tutorialScript() []string {
	if e.TutorialScript != nil {
		return e.TutorialScript
	}
	return DefaultTutorialScript
}

// Riddle is one game. Identity fields are immutable; the rest is
// guarded by mu.
type Riddle struct {
	ID        string
	Player    string
	Mode      gamemode.Mode
	Group     string
	StartedAt time.Time

	env      *Env
	template *recipes.Recipe

	mu        sync.Mutex
	hints     []string
	inventory []items.Item
	allowed   map[recipes.Material]struct{} // resource mode only
	tips      []Tip
	guessed   map[string]struct{}
	state     State
}

// PickGroup chooses the hidden group for mode at time now.
func PickGroup(env *Env, mode gamemode.Mode, now time.Time) (string, error) {
	if !mode.Valid() {
		return "", gamemode.ErrUnknownMode
	}
	switch mode {
	case gamemode.Tutorial:
		key := env.tutorialGroup()
		if _, ok := env.Recipes.Group(key); !ok {
			return "", fmt.Errorf("%w: tutorial group %q", ErrUnknownGroup, key)
		}
		return key, nil
	case gamemode.Daily:
		key := daily.Pick(now, env.DailySalt, env.Recipes.EligibleGroups(mode))
		if key == "" {
			return "", ErrNoEligibleGroup
		}
		return key, nil
	}
	keys := env.Recipes.EligibleGroups(mode)
	if len(keys) == 0 {
		return "", ErrNoEligibleGroup
	}
	return entropy.Pick(env.Rand, keys), nil
}

// New starts a riddle for player in mode.
func New(env *Env, player string, mode gamemode.Mode) (*Riddle, error) {
	now := env.Now()
	key, err := PickGroup(env, mode, now)
	if err != nil {
		return nil, err
	}
	return start(env, uuid.NewString(), player, mode, key, now)
}

func start(env *Env, id, player string, mode gamemode.Mode, key string, now time.Time) (*Riddle, error) {
	g, ok := env.Recipes.Group(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, key)
	}
	r := &Riddle{
		ID:        id,
		Player:    player,
		Mode:      mode,
		Group:     key,
		StartedAt: now,
		env:       env,
		template:  entropy.Pick(env.Rand, g.Recipes),
		guessed:   make(map[string]struct{}),
		state:     StateAwaitingGuess,
	}
	if mode == gamemode.Resource {
		seed := graph.Seed(r.template.Materials(), env.Rand)
		closure := graph.Shuffled(seed, env.Recipes.Groups(), graph.Limit, env.Rand)
		r.setInventory(env.Items.Gather(closure.Materials))
	} else {
		r.setInventory(env.Items.All())
	}
	if mode.HasHints() {
		r.hints = hints.Generate(r.template, env.Recipes, env.Items.Name, env.Rand)
	}
	return r, nil
}

// Restore rebuilds a riddle from a snapshot. The template is re-picked.
func Restore(env *Env, s Snapshot) (*Riddle, error) {
	if !s.Mode.Valid() {
		return nil, gamemode.ErrUnknownMode
	}
	g, ok := env.Recipes.Group(s.Group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, s.Group)
	}
	r := &Riddle{
		ID:        s.ID,
		Player:    s.Player,
		Mode:      s.Mode,
		Group:     s.Group,
		StartedAt: s.StartedAt,
		env:       env,
		template:  entropy.Pick(env.Rand, g.Recipes),
		hints:     append([]string(nil), s.Hints...),
		tips:      append([]Tip(nil), s.Tips...),
		guessed:   make(map[string]struct{}, len(s.Tips)),
		state:     s.State,
	}
	if r.state == "" {
		r.state = StateAwaitingGuess
	}
	for _, t := range r.tips {
		r.guessed[t.Ref().key()] = struct{}{}
	}
	if s.Mode == gamemode.Resource {
		r.setInventory(env.Items.Gather(s.Inventory))
	} else {
		r.setInventory(env.Items.All())
	}
	return r, nil
}

func (r *Riddle) setInventory(list []items.Item) {
	r.inventory = list
	if r.Mode != gamemode.Resource {
		return
	}
	r.allowed = make(map[recipes.Material]struct{}, len(list))
	for _, it := range list {
		r.allowed[it.ID] = struct{}{}
	}
}

// ApplyGuess validates and scores a guess. When accepted, onAccept (if
// non-nil) runs before the riddle lock is released.
//
// Validation rules:
//   - The riddle must not be in a terminal state.
//   - The submission must have gridSize^2 cells.
//   - The claimed recipe must exist and not have been guessed before.
//   - Tutorial step n only accepts the group of script[n].
//   - The submission must itself craft the claimed recipe.
//   - Resource mode only accepts inventory materials.
func (r *Riddle) ApplyGuess(sub match.Submission, ref Ref, onAccept func(Outcome)) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	claimed, err := r.validate(sub, ref)
	if err != nil {
		return Outcome{Reason: err, State: r.state, Guesses: len(r.tips)}
	}

	g, _ := r.env.Recipes.Group(r.Group)
	res, err := match.Score(g.Recipes, sub, r.Mode.GridSize())
	if err != nil {
		return Outcome{Reason: err, State: r.state, Guesses: len(r.tips)}
	}

	tip := Tip{
		Item:  TipItem{ID: claimed.ID, Group: claimed.Group, Name: claimed.Name, Src: claimed.Src},
		Table: res.Cells,
		Date:  r.env.Now(),
	}
	r.tips = append(r.tips, tip)
	r.guessed[ref.key()] = struct{}{}

	switch {
	case res.Solved:
		r.state = StateSolved
	case r.Mode == gamemode.Hardcore && len(r.tips) >= gamemode.Hearts:
		r.state = StateOutOfHearts
	}

	out := Outcome{Accepted: true, Tip: tip, Result: res, State: r.state, Guesses: len(r.tips)}
	if onAccept != nil {
		onAccept(out)
	}
	return out
}

func (r *Riddle) validate(sub match.Submission, ref Ref) (*recipes.Recipe, error) {
	if r.state.Terminal() {
		return nil, ErrFinished
	}
	size := r.Mode.GridSize()
	if len(sub) != size*size {
		return nil, ErrGridMismatch
	}
	claimed, ok := r.env.Recipes.Recipe(ref.Group, ref.ID)
	if !ok {
		return nil, ErrUnknownRecipe
	}
	if _, dup := r.guessed[ref.key()]; dup {
		return nil, ErrAlreadyGuessed
	}
	if r.Mode == gamemode.Tutorial {
		script := r.env.tutorialScript()
		if step := len(r.tips); step < len(script) && ref.Group != script[step] {
			return nil, ErrOutOfScript
		}
	}
	if res, err := match.ScoreRecipe(claimed, sub, size); err != nil || !res.Solved {
		return nil, ErrNotCrafted
	}
	if r.allowed != nil {
		for _, m := range sub {
			if m == "" {
				continue
			}
			if _, ok := r.allowed[m]; !ok {
				return nil, ErrNotInInventory
			}
		}
	}
	return claimed, nil
}

// View renders the client payload.
func (r *Riddle) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view()
}

func (r *Riddle) view() View {
	v := View{
		Items:   r.inventory,
		Recipes: r.env.Recipes.Snapshot(),
		Tips:    append([]Tip{}, r.tips...),
		Hints:   hints.Visible(r.hints, len(r.tips)),
		Result:  r.state == StateSolved,
	}
	if r.Mode == gamemode.Hardcore {
		h := max(gamemode.Hearts-len(r.tips), 0)
		v.Hearts = &h
	}
	return v
}

// Snapshot captures the persistable state.
func (r *Riddle) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		ID:        r.ID,
		Player:    r.Player,
		Mode:      r.Mode,
		Group:     r.Group,
		Hints:     append([]string(nil), r.hints...),
		Tips:      append([]Tip(nil), r.tips...),
		State:     r.state,
		StartedAt: r.StartedAt,
	}
	if r.Mode == gamemode.Resource {
		for _, it := range r.inventory {
			s.Inventory = append(s.Inventory, it.ID)
		}
	}
	return s
}

// State reports the current state.
func (r *Riddle) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Guesses is the number of accepted guesses.
func (r *Riddle) Guesses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tips)
}

// Template is the recipe hints were generated from.
func (r *Riddle) Template() *recipes.Recipe { return r.template }
