// internal/recipes/normalize.go
//
// Raw -> canonical conversion.
//
// Shaped patterns:
//   1. sparse {"index": cell} maps become a dense list sized maxIndex+1,
//      gaps filled with empty slots;
//   2. scalar cells become singleton alternative sets, lists pass through;
//   3. the flat list is folded into 3-wide rows, the last row padded.
//
// Any malformed entry is a load-time error; nothing is silently dropped.

package recipes

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

const (
	rowWidth  = 3
	maxSlots  = rowWidth * rowWidth
	requiredK = "required"
	optionalK = "optional"
)

var (
	// ErrEmptyRecipe marks a recipe with no occupied slot.
	ErrEmptyRecipe = errors.New("recipe has no occupied slot")
	// ErrMalformed marks any structurally invalid entry.
	ErrMalformed = errors.New("malformed recipe")
)

// Normalize converts a raw file into canonical groups, sorted by key.
// Eligibility is left empty; see package eligibility.
func Normalize(raw RawFile) ([]*Group, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]*Group, 0, len(keys))
	for _, key := range keys {
		list := raw[key]
		if len(list) == 0 {
			return nil, fmt.Errorf("group %q: %w: no recipes", key, ErrMalformed)
		}
		g := &Group{Key: key, Recipes: make([]*Recipe, 0, len(list))}
		seen := make(map[string]struct{}, len(list))
		for _, rr := range list {
			r, err := NormalizeRecipe(key, rr)
			if err != nil {
				return nil, fmt.Errorf("group %q: %w", key, err)
			}
			if _, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("group %q: %w: duplicate recipe id %q", key, ErrMalformed, r.ID)
			}
			seen[r.ID] = struct{}{}
			g.Recipes = append(g.Recipes, r)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// NormalizeRecipe converts one raw recipe.
func NormalizeRecipe(group string, rr RawRecipe) (*Recipe, error) {
	if rr.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformed)
	}
	r := &Recipe{ID: rr.ID, Name: rr.Name, Src: rr.Src, Group: group}
	if r.Name == "" {
		r.Name = rr.ID
	}
	var err error
	if rr.Shapeless {
		r.Shape, err = parseShapeless(rr.Recipe.Value)
	} else {
		r.Shape, err = parseShaped(rr.Recipe.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", rr.ID, err)
	}
	return r, nil
}

func parseShaped(v any) (*Shaped, error) {
	var flat []any
	switch p := v.(type) {
	case []any:
		flat = p
	case map[string]any:
		d, err := densify(p)
		if err != nil {
			return nil, err
		}
		flat = d
	case map[any]any:
		sparse := make(map[string]any, len(p))
		for k, cell := range p {
			sparse[fmt.Sprint(k)] = cell
		}
		d, err := densify(sparse)
		if err != nil {
			return nil, err
		}
		flat = d
	default:
		return nil, fmt.Errorf("%w: shaped pattern must be a list or an index map, got %T", ErrMalformed, v)
	}
	if len(flat) > maxSlots {
		return nil, fmt.Errorf("%w: %d cells exceed a 3x3 grid", ErrMalformed, len(flat))
	}

	cells := make([]AlternativeSet, len(flat))
	occupied := 0
	for i, c := range flat {
		alt, err := parseSlot(c)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		if alt != nil {
			occupied++
		}
		cells[i] = alt
	}
	if occupied == 0 {
		return nil, ErrEmptyRecipe
	}
	return &Shaped{Grid: fold(cells)}, nil
}

// densify turns an index-keyed map into a list of length maxIndex+1.
func densify(sparse map[string]any) ([]any, error) {
	maxIdx := -1
	byIdx := make(map[int]any, len(sparse))
	for k, cell := range sparse {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= maxSlots {
			return nil, fmt.Errorf("%w: slot index %q outside 0..%d", ErrMalformed, k, maxSlots-1)
		}
		byIdx[i] = cell
		if i > maxIdx {
			maxIdx = i
		}
	}
	out := make([]any, maxIdx+1)
	for i := range out {
		out[i] = byIdx[i]
	}
	return out, nil
}

// fold splits a flat slot list into 3-wide rows, padding the last row.
func fold(cells []AlternativeSet) Grid {
	var g Grid
	for i := 0; i < len(cells); i += rowWidth {
		row := make([]AlternativeSet, rowWidth)
		copy(row, cells[i:min(i+rowWidth, len(cells))])
		g = append(g, row)
	}
	return g
}

func parseShapeless(v any) (*Shapeless, error) {
	var req, opt any
	switch p := v.(type) {
	case map[string]any:
		req, opt = p[requiredK], p[optionalK]
	case map[any]any:
		req, opt = p[requiredK], p[optionalK]
	default:
		return nil, fmt.Errorf("%w: shapeless pattern must be an object, got %T", ErrMalformed, v)
	}

	reqList, ok := req.([]any)
	if !ok || len(reqList) == 0 {
		return nil, ErrEmptyRecipe
	}
	s := &Shapeless{Required: make([]AlternativeSet, 0, len(reqList))}
	for i, c := range reqList {
		alt, err := parseSlot(c)
		if err != nil {
			return nil, fmt.Errorf("required %d: %w", i, err)
		}
		if alt == nil {
			return nil, fmt.Errorf("required %d: %w: null entry", i, ErrMalformed)
		}
		s.Required = append(s.Required, alt)
	}

	if opt != nil {
		optList, ok := opt.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: optional must be a list", ErrMalformed)
		}
		for i, o := range optList {
			m, ok := o.(string)
			if !ok || m == "" {
				return nil, fmt.Errorf("optional %d: %w: want a material id", i, ErrMalformed)
			}
			s.Optional = append(s.Optional, Material(m))
		}
	}
	return s, nil
}

// parseSlot wraps scalars, passes lists through and maps null to nil.
func parseSlot(v any) (AlternativeSet, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case string:
		if c == "" {
			return nil, fmt.Errorf("%w: empty material id", ErrMalformed)
		}
		return AlternativeSet{Material(c)}, nil
	case []any:
		if len(c) == 0 {
			return nil, fmt.Errorf("%w: empty alternative list", ErrMalformed)
		}
		alt := make(AlternativeSet, 0, len(c))
		for _, x := range c {
			s, ok := x.(string)
			if !ok || s == "" {
				return nil, fmt.Errorf("%w: alternative %v is not a material id", ErrMalformed, x)
			}
			alt = append(alt, Material(s))
		}
		return alt, nil
	default:
		return nil, fmt.Errorf("%w: unexpected slot value %T", ErrMalformed, v)
	}
}
