package items

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultLimit caps Search when the caller passes limit <= 0.
const DefaultLimit = 10

// Match is one ranked search hit.
type Match struct {
	Item
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

type searchEntry struct {
	name string // folded display name
	id   string // folded id, underscores as spaces
}

func fold(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(cases.Fold().String(s)), " ")
}

func buildIndex(list []Item) []searchEntry {
	idx := make([]searchEntry, len(list))
	for i, it := range list {
		idx[i] = searchEntry{name: fold(it.Name), id: fold(string(it.ID))}
	}
	return idx
}

// Search ranks items against q: exact name or id, then prefix, then
// substring, then edit distance within a length-dependent limit.
func (c *Catalog) Search(q string, limit int) []Match {
	if limit <= 0 {
		limit = DefaultLimit
	}
	q = fold(q)
	if q == "" {
		return nil
	}

	var hits []Match
	for i, e := range c.idx {
		score, source := rank(q, e)
		if score == 0 {
			continue
		}
		hits = append(hits, Match{Item: c.list[i], Score: score, Source: source})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].Name < hits[j].Name
		}
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func rank(q string, e searchEntry) (float64, string) {
	switch {
	case q == e.name || q == e.id:
		return 1, "exact"
	case strings.HasPrefix(e.name, q) || strings.HasPrefix(e.id, q):
		return 0.9, "prefix"
	case strings.Contains(e.name, q):
		return 0.8, "contains"
	}
	if len(q) < 3 {
		return 0, ""
	}
	dist := levenshtein.ComputeDistance(q, e.name)
	if dist > distanceLimit(len(e.name)) {
		return 0, ""
	}
	return 0.72 - 0.08*float64(dist), "lev"
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
