// internal/gamemode/gamemode.go
//
// Closed enumeration of puzzle variants.
// Defines:
//   - Mode: numeric gamemode identifier (1..7).
//   - Set:  sorted, duplicate-free collection of modes (a recipe's eligibility).
//
// Grid size is the only rule that varies per mode at this level:
// Pocket (5) plays on a 2x2 grid, every other mode on 3x3.

package gamemode

import (
	"errors"
	"fmt"
	"sort"
)

// Mode identifies a puzzle variant.
type Mode int

const (
	Tutorial Mode = 1
	Classic  Mode = 2
	Daily    Mode = 3
	AllInOne Mode = 4 // baseline, every recipe supports it
	Pocket   Mode = 5 // compact 2x2 grid
	Resource Mode = 6 // restricted inventory
	Hardcore Mode = 7 // no hints, limited hearts
)

// ErrUnknownMode is returned by Parse for identifiers outside the enumeration.
var ErrUnknownMode = errors.New("unknown gamemode")

// All lists every mode in ascending order.
var All = []Mode{Tutorial, Classic, Daily, AllInOne, Pocket, Resource, Hardcore}

// Hearts is the number of guesses a Hardcore riddle allows.
const Hearts = 10

var names = map[Mode]string{
	Tutorial: "Tutorial",
	Classic:  "Classic",
	Daily:    "Daily",
	AllInOne: "All in One",
	Pocket:   "Pocket",
	Resource: "Resource",
	Hardcore: "Hardcore",
}

// Parse validates a raw identifier.
func Parse(n int) (Mode, error) {
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMode, n)
	}
	return m, nil
}

// Valid reports whether m is part of the enumeration.
func (m Mode) Valid() bool {
	_, ok := names[m]
	return ok
}

// GridSize is the side length of the crafting grid for m.
func (m Mode) GridSize() int {
	if m == Pocket {
		return 2
	}
	return 3
}

// HasHints reports whether riddles of this mode carry hints.
func (m Mode) HasHints() bool { return m != Hardcore }

func (m Mode) String() string {
	if n, ok := names[m]; ok {
		return n
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Set is a sorted, duplicate-free list of modes.
// It marshals as a plain JSON array of integers.
type Set []Mode

// NewSet builds a normalized Set from arbitrary modes.
func NewSet(modes ...Mode) Set {
	s := make(Set, 0, len(modes))
	for _, m := range modes {
		s = s.Add(m)
	}
	return s
}

// Add returns s with m inserted in order (no-op if present).
func (s Set) Add(m Mode) Set {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= m })
	if i < len(s) && s[i] == m {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = m
	return s
}

// Contains reports membership.
func (s Set) Contains(m Mode) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= m })
	return i < len(s) && s[i] == m
}

// Clone returns an independent copy.
func (s Set) Clone() Set { return append(Set(nil), s...) }
