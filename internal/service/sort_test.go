package service

import (
	"testing"

	"github.com/jeffparker/plexport/internal/domain"
)

func item(id, title string, year int) *domain.MediaItem {
	return &domain.MediaItem{ID: id, Title: title, Year: year, Type: domain.MediaTypeMovie}
}

func ids(items []*domain.MediaItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*domain.MediaItem, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s (full order: %v)", i, got[i].ID, id, ids(got))
		}
	}
}

func TestSortItemsForModify(t *testing.T) {
	tests := []struct {
		name  string
		items []*domain.MediaItem
		want  []string
	}{
		{
			name: "year then title",
			items: []*domain.MediaItem{
				item("1", "Zodiac", 2007),
				item("2", "Alien", 1979),
				item("3", "Blade Runner", 1982),
			},
			want: []string{"2", "3", "1"},
		},
		{
			name: "title breaks year ties",
			items: []*domain.MediaItem{
				item("1", "Beta", 1999),
				item("2", "Alpha", 1999),
				item("3", "Gamma", 0),
			},
			want: []string{"2", "1", "3"},
		},
		{
			name: "unknown years sort after all known years",
			items: []*domain.MediaItem{
				item("1", "Aardvark", 0),
				item("2", "Zebra", 2020),
				item("3", "Mongoose", 0),
				item("4", "Badger", 1950),
			},
			want: []string{"4", "2", "1", "3"},
		},
		{
			name: "title comparison is case-insensitive",
			items: []*domain.MediaItem{
				item("1", "zulu", 2000),
				item("2", "Alpha", 2000),
				item("3", "bravo", 2000),
			},
			want: []string{"2", "3", "1"},
		},
		{
			name:  "empty",
			items: nil,
			want:  nil,
		},
		{
			name:  "single item",
			items: []*domain.MediaItem{item("1", "Solo", 2018)},
			want:  []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortItemsForModify(tt.items)
			assertOrder(t, got, tt.want)
		})
	}
}

func TestSortItemsForModifyIdempotent(t *testing.T) {
	items := []*domain.MediaItem{
		item("1", "Charlie", 0),
		item("2", "Alpha", 2001),
		item("3", "Bravo", 2001),
		item("4", "Delta", 0),
	}

	once := SortItemsForModify(items)
	twice := SortItemsForModify(once)
	if !sameOrder(once, twice) {
		t.Errorf("second sort changed the order: %v vs %v", ids(once), ids(twice))
	}
}

func TestSortItemsForModifyDoesNotMutateInput(t *testing.T) {
	items := []*domain.MediaItem{
		item("1", "Beta", 2010),
		item("2", "Alpha", 2005),
	}

	_ = SortItemsForModify(items)
	assertOrder(t, items, []string{"1", "2"})
}

func TestSameOrder(t *testing.T) {
	a := []*domain.MediaItem{item("1", "A", 2000), item("2", "B", 2001)}
	b := []*domain.MediaItem{item("1", "A", 2000), item("2", "B", 2001)}
	c := []*domain.MediaItem{item("2", "B", 2001), item("1", "A", 2000)}

	if !sameOrder(a, b) {
		t.Error("identical order reported as different")
	}
	if sameOrder(a, c) {
		t.Error("reversed order reported as same")
	}
	if sameOrder(a, a[:1]) {
		t.Error("different lengths reported as same")
	}
}
