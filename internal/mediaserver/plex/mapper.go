package plex

import (
	"strings"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
)

// MapPlaylists converts Plex playlist metadata to domain playlists
func MapPlaylists(metadata []Metadata) []*domain.Playlist {
	playlists := make([]*domain.Playlist, 0, len(metadata))
	for _, m := range metadata {
		if m.Type != "playlist" {
			continue
		}
		playlists = append(playlists, &domain.Playlist{
			ID:        m.RatingKey,
			Title:     m.Title,
			Summary:   m.Summary,
			Smart:     m.Smart == 1,
			ItemCount: m.LeafCount,
			Duration:  time.Duration(m.Duration) * time.Millisecond,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return playlists
}

// MapItems converts Plex metadata entries to domain media items
func MapItems(metadata []Metadata) []*domain.MediaItem {
	items := make([]*domain.MediaItem, 0, len(metadata))
	for _, m := range metadata {
		item := mapItem(m)
		items = append(items, &item)
	}
	return items
}

// mapItem converts a single metadata entry to a domain media item
func mapItem(m Metadata) domain.MediaItem {
	return domain.MediaItem{
		ID:       m.RatingKey,
		Title:    m.Title,
		Year:     m.Year,
		Type:     domain.ParseMediaType(m.Type),
		GUID:     primaryGUID(m),
		Duration: time.Duration(m.Duration) * time.Millisecond,
		AddedAt:  m.AddedAt,
	}
}

// primaryGUID picks the most portable external identifier for an item.
// IMDB IDs are preferred since they survive across servers; the Plex
// internal GUID is the last resort.
func primaryGUID(m Metadata) string {
	var fallback string
	for _, g := range m.Guids {
		if strings.HasPrefix(g.ID, "imdb://") {
			return g.ID
		}
		if fallback == "" {
			fallback = g.ID
		}
	}
	if fallback != "" {
		return fallback
	}
	return m.GUID
}
