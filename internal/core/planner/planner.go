// Package planner orders entries for passes whose order matters.
package planner

import (
	"sort"

	"github.com/Ning0612/lumins/internal/domain"
)

// SortForDeletion returns a new slice ordered deepest path first, so every
// child precedes its parent. Entries of equal depth keep no particular order.
func SortForDeletion[E domain.Entry](entries []E) []E {
	return sortByDepth(entries, func(a, b int) bool { return a > b })
}

// SortForCreation returns a new slice ordered shallowest path first, so every
// parent precedes its children
func SortForCreation[E domain.Entry](entries []E) []E {
	return sortByDepth(entries, func(a, b int) bool { return a < b })
}

// Depth returns the number of components of a relative path
func Depth(rel string) int {
	return domain.Depth(rel)
}

func sortByDepth[E domain.Entry](entries []E, less func(a, b int) bool) []E {
	depths := make(map[string]int, len(entries))
	for _, e := range entries {
		depths[e.RelPath()] = Depth(e.RelPath())
	}

	sorted := make([]E, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		return less(depths[sorted[i].RelPath()], depths[sorted[j].RelPath()])
	})
	return sorted
}
