// internal/recipes/catalog.go
//
// Read-only recipe catalog.
// Built once at startup (after eligibility has been assigned) and shared
// across goroutines without locking; nothing mutates it afterwards.

package recipes

import (
	"fmt"
	"sort"

	"github.com/robalobadob/craftle/internal/gamemode"
)

// Catalog indexes recipe groups by key.
type Catalog struct {
	groups   map[string]*Group
	keys     []string
	all      []*Recipe
	snapshot Snapshot
}

// NewCatalog freezes groups into a catalog.
func NewCatalog(groups []*Group) (*Catalog, error) {
	c := &Catalog{groups: make(map[string]*Group, len(groups))}
	for _, g := range groups {
		if _, dup := c.groups[g.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrMalformed, g.Key)
		}
		if len(g.Recipes) == 0 {
			return nil, fmt.Errorf("%w: group %q has no recipes", ErrMalformed, g.Key)
		}
		c.groups[g.Key] = g
		c.keys = append(c.keys, g.Key)
	}
	sort.Strings(c.keys)
	for _, k := range c.keys {
		c.all = append(c.all, c.groups[k].Recipes...)
	}
	c.snapshot = buildSnapshot(c)
	return c, nil
}

// Group looks up a group by key.
func (c *Catalog) Group(key string) (*Group, bool) {
	g, ok := c.groups[key]
	return g, ok
}

// Keys returns group keys in sorted order.
func (c *Catalog) Keys() []string { return append([]string(nil), c.keys...) }

// Groups returns groups in key order.
func (c *Catalog) Groups() []*Group {
	out := make([]*Group, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.groups[k]
	}
	return out
}

// All returns every recipe, grouped and in key order.
func (c *Catalog) All() []*Recipe { return c.all }

// Recipe finds a recipe by group key and id.
func (c *Catalog) Recipe(group, id string) (*Recipe, bool) {
	g, ok := c.groups[group]
	if !ok {
		return nil, false
	}
	for _, r := range g.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// EligibleGroups lists, in key order, the groups supporting m.
func (c *Catalog) EligibleGroups(m gamemode.Mode) []string {
	var out []string
	for _, k := range c.keys {
		if c.groups[k].Modes().Contains(m) {
			out = append(out, k)
		}
	}
	return out
}

// Snapshot is the client-facing serialization of the catalog.
type Snapshot map[string][]SnapshotRecipe

// SnapshotRecipe is one recipe as sent to clients. Recipe holds the
// 3-wide grid for shaped recipes, {required, optional} otherwise.
type SnapshotRecipe struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Recipe    any    `json:"recipe"`
	Shapeless bool   `json:"shapeless"`
	Src       string `json:"src"`
}

type shapelessView struct {
	Required []AlternativeSet `json:"required"`
	Optional []Material       `json:"optional"`
}

// Snapshot returns the precomputed client view. It must not be modified.
func (c *Catalog) Snapshot() Snapshot { return c.snapshot }

func buildSnapshot(c *Catalog) Snapshot {
	out := make(Snapshot, len(c.keys))
	for _, k := range c.keys {
		g := c.groups[k]
		list := make([]SnapshotRecipe, 0, len(g.Recipes))
		for _, r := range g.Recipes {
			sr := SnapshotRecipe{ID: r.ID, Name: r.Name, Shapeless: r.IsShapeless(), Src: r.Src}
			switch s := r.Shape.(type) {
			case *Shaped:
				sr.Recipe = s.Grid
			case *Shapeless:
				sr.Recipe = shapelessView{Required: s.Required, Optional: s.Optional}
			}
			list = append(list, sr)
		}
		out[k] = list
	}
	return out
}
