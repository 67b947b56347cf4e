package service

import (
	"sort"
	"strings"

	"github.com/jeffparker/plexport/internal/domain"
)

// SortItemsForModify returns a new slice with items ordered for the Modify
// operation: release year ascending with unknown years after all known
// years, then title ascending. Titles compare case-insensitively using a
// locale-independent lowercase byte comparison so the order is reproducible
// across platforms. The sort is stable, which makes repeated Modify runs on
// an already-sorted list idempotent. The input slice is not mutated.
func SortItemsForModify(items []*domain.MediaItem) []*domain.MediaItem {
	sorted := make([]*domain.MediaItem, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasYear() != b.HasYear() {
			return a.HasYear() // Unknown years sort last
		}
		if a.HasYear() && a.Year != b.Year {
			return a.Year < b.Year
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})

	return sorted
}

// sameOrder reports whether two item slices hold the same IDs in the same
// positions. Used to skip the server write when Modify would change nothing.
func sameOrder(a, b []*domain.MediaItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
