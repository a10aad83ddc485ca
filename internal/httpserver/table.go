package httpserver

import (
	"encoding/json"
	"fmt"

	"github.com/robalobadob/craftle/internal/match"
	"github.com/robalobadob/craftle/internal/recipes"
)

// Table is a submitted crafting grid, flat and row-major. Each cell is
// null, an item id, or a list whose first entry is the item id.
type Table []recipes.Material

func (t *Table) UnmarshalJSON(b []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(b, &cells); err != nil {
		return err
	}
	out := make(Table, len(cells))
	for i, raw := range cells {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		switch c := v.(type) {
		case nil:
		case string:
			out[i] = recipes.Material(c)
		case []any:
			if len(c) == 0 {
				continue
			}
			s, ok := c[0].(string)
			if !ok {
				return fmt.Errorf("table cell %d: want item id", i)
			}
			out[i] = recipes.Material(s)
		default:
			return fmt.Errorf("table cell %d: unexpected %T", i, v)
		}
	}
	*t = out
	return nil
}

// Submission converts the table for the match engine.
func (t Table) Submission() match.Submission { return match.Submission(t) }
