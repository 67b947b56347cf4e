package domain

import (
	"fmt"
	"time"
)

// MediaType distinguishes content types
type MediaType int

const (
	MediaTypeMovie MediaType = iota
	MediaTypeEpisode
	MediaTypeTrack
	MediaTypeUnknown
)

// String returns the wire/display name for the media type
func (t MediaType) String() string {
	switch t {
	case MediaTypeMovie:
		return "movie"
	case MediaTypeEpisode:
		return "episode"
	case MediaTypeTrack:
		return "track"
	default:
		return "unknown"
	}
}

// ParseMediaType converts a wire-format type name to a MediaType
func ParseMediaType(s string) MediaType {
	switch s {
	case "movie":
		return MediaTypeMovie
	case "episode":
		return MediaTypeEpisode
	case "track":
		return MediaTypeTrack
	default:
		return MediaTypeUnknown
	}
}

// MediaItem represents a single playlist entry (movie, episode, or track).
// Items are immutable within the scope of one operation: fetch, reorder,
// and write back always work on fresh copies.
type MediaItem struct {
	ID       string        // Server-specific identifier (Plex rating key)
	Title    string        // Display title
	Year     int           // Release year, 0 = unknown
	Type     MediaType     // Movie, Episode, or Track
	GUID     string        // External identifier, e.g. "imdb://tt0137523"
	Duration time.Duration // Runtime
	AddedAt  int64         // Unix timestamp when added to library
}

// HasYear reports whether the item carries a known release year
func (m MediaItem) HasYear() bool {
	return m.Year > 0
}

// FormattedDuration returns the duration in a human-readable format
func (m MediaItem) FormattedDuration() string {
	h := int(m.Duration.Hours())
	mins := int(m.Duration.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// DisplayLabel returns the title annotated with the year when known
func (m MediaItem) DisplayLabel() string {
	if m.HasYear() {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}

// Playlist represents a server-side playlist summary
type Playlist struct {
	ID        string        // Playlist identifier
	Title     string        // Display title, unique per account but not enforced
	Summary   string        // Optional description
	Smart     bool          // Smart/dynamic playlist (cannot be imported into)
	ItemCount int           // Number of items in playlist
	Duration  time.Duration // Total duration of all items
	UpdatedAt int64         // Unix timestamp when last updated
}

// Description returns a short summary line for list views
func (p Playlist) Description() string {
	if p.ItemCount == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", p.ItemCount)
}
