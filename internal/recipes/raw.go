// internal/recipes/raw.go
//
// On-disk recipe format (JSON or YAML).
//
// File shape: either {"data": {<group>: [recipe...]}} or the bare group map.
// A recipe's "recipe" field is polymorphic:
//   - shaped:    dense list of cells, or a sparse {"<index>": cell} map,
//                a cell being null, a material, or a list of alternatives;
//   - shapeless: {"required": [cell...], "optional": [material...]}.

package recipes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a recipe file.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor guesses the format from a file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// RawRecipe is a recipe exactly as stored on disk.
type RawRecipe struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Src              string     `json:"src" yaml:"src"`
	Shapeless        bool       `json:"shapeless" yaml:"shapeless"`
	Recipe           RawPattern `json:"recipe" yaml:"recipe"`
	EnabledGamemodes []int      `json:"enabledGamemodes,omitempty" yaml:"enabledGamemodes,omitempty"`
}

// RawPattern holds the untyped "recipe" field until normalization.
type RawPattern struct {
	Value any
}

func (p *RawPattern) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &p.Value) }
func (p *RawPattern) UnmarshalYAML(n *yaml.Node) error { return n.Decode(&p.Value) }
func (p RawPattern) MarshalJSON() ([]byte, error)    { return json.Marshal(p.Value) }
func (p RawPattern) MarshalYAML() (any, error)       { return p.Value, nil }

// RawFile maps group keys to their raw recipes.
type RawFile map[string][]RawRecipe

type envelope struct {
	Data RawFile `json:"data" yaml:"data"`
}

// Parse decodes a recipe file in the given format.
func Parse(data []byte, f Format) (RawFile, error) {
	var env envelope
	if err := unmarshal(data, f, &env); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	var bare RawFile
	if err := unmarshal(data, f, &bare); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}
	return bare, nil
}

// ReadFile loads and decodes a recipe file, picking the format from its extension.
func ReadFile(path string) (RawFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(b, FormatFor(path))
}

// Encode writes a raw file wrapped in the {"data": ...} envelope.
func Encode(raw RawFile, f Format) ([]byte, error) {
	env := envelope{Data: raw}
	if f == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(env); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return json.MarshalIndent(env, "", "  ")
}

func unmarshal(data []byte, f Format, v any) error {
	if f == YAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// ToRaw converts normalized groups back into the on-disk form: shaped
// recipes become dense cell lists, every cell a list of alternatives,
// and the computed eligibility is written to enabledGamemodes.
func ToRaw(groups []*Group) RawFile {
	out := make(RawFile, len(groups))
	for _, g := range groups {
		list := make([]RawRecipe, 0, len(g.Recipes))
		for _, r := range g.Recipes {
			modes := make([]int, len(r.Gamemodes))
			for i, m := range r.Gamemodes {
				modes[i] = int(m)
			}
			list = append(list, RawRecipe{
				ID:               r.ID,
				Name:             r.Name,
				Src:              r.Src,
				Shapeless:        r.IsShapeless(),
				Recipe:           RawPattern{Value: patternOf(r.Shape)},
				EnabledGamemodes: modes,
			})
		}
		out[g.Key] = list
	}
	return out
}

func patternOf(s Shape) any {
	switch s := s.(type) {
	case *Shaped:
		cells := make([]any, 0, len(s.Grid)*rowWidth)
		for _, row := range s.Grid {
			for _, cell := range row {
				if cell == nil {
					cells = append(cells, nil)
					continue
				}
				cells = append(cells, materialStrings(cell))
			}
		}
		return cells
	case *Shapeless:
		req := make([]any, len(s.Required))
		for i, alt := range s.Required {
			req[i] = materialStrings(alt)
		}
		opt := make([]string, len(s.Optional))
		for i, m := range s.Optional {
			opt[i] = string(m)
		}
		return map[string]any{"required": req, "optional": opt}
	}
	return nil
}

func materialStrings(a AlternativeSet) []string {
	out := make([]string, len(a))
	for i, m := range a {
		out[i] = string(m)
	}
	return out
}
