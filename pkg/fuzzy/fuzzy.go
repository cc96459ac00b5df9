// Package fuzzy ranks near-miss dictionary keys by edit distance.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Distance is the Levenshtein distance between a and b, counted in code
// points after lowercasing both sides.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
}

// Rank returns candidates ordered by ascending distance to query.
// Ties keep their input order. The input slice is not modified.
func Rank(query string, candidates []string) []string {
	type scored struct {
		word string
		dist int
	}

	pool := make([]scored, len(candidates))
	for i, c := range candidates {
		pool[i] = scored{word: c, dist: Distance(c, query)}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].dist < pool[j].dist
	})

	out := make([]string, len(pool))
	for i, s := range pool {
		out[i] = s.word
	}
	return out
}

// Top ranks candidates and keeps at most limit of them.
// A non-positive limit yields an empty result.
func Top(query string, candidates []string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	ranked := Rank(query, candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
