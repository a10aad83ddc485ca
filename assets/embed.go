// assets/embed.go
//
// Default data shipped inside the binary so the server runs without any
// configured files: the recipe catalog and the item list.

package assets

import (
	"embed"
)

//go:embed recipes.json items.json
var FS embed.FS

// Recipes returns the embedded raw recipe file (JSON).
func Recipes() ([]byte, error) {
	return FS.ReadFile("recipes.json")
}

// Items returns the embedded item list (JSON).
func Items() ([]byte, error) {
	return FS.ReadFile("items.json")
}
