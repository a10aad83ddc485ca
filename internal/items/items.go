// internal/items/items.go
//
// Item catalog: the concrete items a player can drag into the grid.
//
// Responsibilities:
//   - Load items from ITEMS_FILE (JSON) or fall back to the embedded default.
//   - Keep catalog order (inventories are rendered in that order).
//   - Lookups by id, display-name resolution and ranked fuzzy search.
//
// File format:
//   [ { "id": "stick", "name": "Stick", "src": "/items/stick.png" }, ... ]
// or the same list wrapped as { "data": [...] }.

package items

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/robalobadob/craftle/assets"
	"github.com/robalobadob/craftle/internal/recipes"
)

// Item is one concrete, placeable item.
type Item struct {
	ID   recipes.Material `json:"id"`
	Name string           `json:"name"`
	Src  string           `json:"src"`
}

// Catalog is read-only after construction.
type Catalog struct {
	list []Item
	byID map[recipes.Material]int
	idx  []searchEntry
}

var ErrEmpty = errors.New("items: catalog is empty")

// New builds a catalog, rejecting empty or duplicate ids.
func New(list []Item) (*Catalog, error) {
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		list: append([]Item(nil), list...),
		byID: make(map[recipes.Material]int, len(list)),
	}
	for i, it := range c.list {
		if it.ID == "" {
			return nil, fmt.Errorf("items: entry %d has no id", i)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("items: duplicate id %q", it.ID)
		}
		if c.list[i].Name == "" {
			c.list[i].Name = string(it.ID)
		}
		c.byID[it.ID] = i
	}
	c.idx = buildIndex(c.list)
	return c, nil
}

// Load reads path, or the embedded default list when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = assets.Items()
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("items: read: %w", err)
	}
	list, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(list)
}

// Parse decodes a bare list or a {"data": [...]} envelope.
func Parse(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	var list []Item
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Data []Item `json:"data"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("items: decode: %w", err)
		}
		list = env.Data
	} else if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("items: decode: %w", err)
	}
	return list, nil
}

// All returns the items in catalog order. Callers must not modify it.
func (c *Catalog) All() []Item { return c.list }

// Len is the number of items.
func (c *Catalog) Len() int { return len(c.list) }

// ByID looks up one item.
func (c *Catalog) ByID(id recipes.Material) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.list[i], true
}

// Name resolves a material to its display name, or the raw id for
// abstract materials without a catalog entry.
func (c *Catalog) Name(id recipes.Material) string {
	if it, ok := c.ByID(id); ok {
		return it.Name
	}
	return string(id)
}

// Gather returns the items whose ids are in want, each once, in catalog order.
// Materials without a catalog item are dropped.
func (c *Catalog) Gather(want []recipes.Material) []Item {
	set := make(map[recipes.Material]struct{}, len(want))
	for _, m := range want {
		set[m] = struct{}{}
	}
	out := make([]Item, 0, len(set))
	for _, it := range c.list {
		if _, ok := set[it.ID]; ok {
			out = append(out, it)
		}
	}
	return out
}
