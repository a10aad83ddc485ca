package eligibility

import (
	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/recipes"
)

// Build normalizes raw, assigns eligibility and freezes the catalog.
// Any enabledGamemodes present in raw are ignored.
func Build(raw recipes.RawFile, src entropy.Source) (*recipes.Catalog, map[string]Traits, error) {
	groups, err := recipes.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	traits := Annotate(groups, src)
	cat, err := recipes.NewCatalog(groups)
	if err != nil {
		return nil, nil, err
	}
	return cat, traits, nil
}
