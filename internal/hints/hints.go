// internal/hints/hints.go
//
// Static hints for a riddle, computed once at game start and revealed one
// by one: hint i (1-indexed) becomes visible once guessCount >= i*5.
//
//   1. minimum number of occupied slots;
//   2. another recipe sharing at least one material (or a "no overlap" note);
//   3. one random material of the recipe;
//   4. the output's display name.

package hints

import (
	"fmt"

	"github.com/robalobadob/craftle/internal/entropy"
	"github.com/robalobadob/craftle/internal/recipes"
)

const (
	// Count is the number of hints per riddle.
	Count = 4
	// RevealEvery is the number of guesses between two reveals.
	RevealEvery = 5

	noOverlap = "Materials used in this recipe are not included in any other recipe!"
)

// NameFunc resolves a material id to a display name.
type NameFunc func(recipes.Material) string

// Generate builds the hint texts for template.
func Generate(template *recipes.Recipe, cat *recipes.Catalog, name NameFunc, src entropy.Source) []string {
	if name == nil {
		name = func(m recipes.Material) string { return string(m) }
	}
	shared := noOverlap
	if other := SharedRecipe(template, cat, src); other != nil {
		shared = "At least 1 material is shared with this recipe: " + other.Name
	}
	return []string{
		fmt.Sprintf("This recipe requires minimum %d slots.", template.SlotCount()),
		shared,
		"Random material from this recipe: " + name(RandomMaterial(template, src)),
		"The item you need to think about is " + template.Name,
	}
}

// SharedRecipe scans groups in random order, skipping the template's own
// group, and returns the first recipe sharing a concrete material.
func SharedRecipe(template *recipes.Recipe, cat *recipes.Catalog, src entropy.Source) *recipes.Recipe {
	var mats []recipes.Material
	for _, alt := range template.Materials() {
		mats = append(mats, alt...)
	}
	for _, key := range entropy.Shuffled(src, cat.Keys()) {
		if key == template.Group {
			continue
		}
		g, _ := cat.Group(key)
		for _, r := range g.Recipes {
			for _, m := range mats {
				if r.Uses(m) {
					return r
				}
			}
		}
	}
	return nil
}

// RandomMaterial draws one slot, then one of its alternatives.
func RandomMaterial(r *recipes.Recipe, src entropy.Source) recipes.Material {
	return entropy.Pick(src, entropy.Pick(src, r.Materials()))
}

// Visible returns exactly Count entries, nil for hints not yet revealed
// (or for riddles without hints).
func Visible(all []string, guessCount int) []*string {
	out := make([]*string, Count)
	for i := 0; i < Count && i < len(all); i++ {
		if guessCount >= (i+1)*RevealEvery {
			h := all[i]
			out[i] = &h
		}
	}
	return out
}
