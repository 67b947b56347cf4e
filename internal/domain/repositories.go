package domain

import "context"

// PlaylistRepository provides playlist operations against a media server.
// Implemented by mediaserver clients; every call is a blocking network
// operation and honors context cancellation.
type PlaylistRepository interface {
	// GetPlaylists returns all user playlists in server enumeration order
	GetPlaylists(ctx context.Context) ([]*Playlist, error)

	// GetPlaylistItems returns all items in a playlist, in playlist order
	GetPlaylistItems(ctx context.Context, playlistID string) ([]*MediaItem, error)

	// CreatePlaylist creates a new playlist with the given title and initial
	// items, preserving itemIDs order
	CreatePlaylist(ctx context.Context, title string, itemIDs []string) (*Playlist, error)

	// AddToPlaylist appends items to an existing playlist
	AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error

	// RemoveFromPlaylist removes an item from a playlist
	RemoveFromPlaylist(ctx context.Context, playlistID string, itemID string) error

	// SetPlaylistItems replaces the entire contents of a playlist with the
	// given items, in order. The playlist identity is preserved.
	SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error

	// RenamePlaylist changes a playlist's title
	RenamePlaylist(ctx context.Context, playlistID string, title string) error

	// DeletePlaylist deletes a playlist
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// ItemFinder locates library items for import matching.
// Lookups degrade from exact (server ID) to fuzzy (title search).
type ItemFinder interface {
	// FetchItem returns the item with the given server ID, or ErrItemNotFound
	FetchItem(ctx context.Context, itemID string) (*MediaItem, error)

	// FindByGUID returns items carrying the given external identifier
	// (e.g. "imdb://tt0137523")
	FindByGUID(ctx context.Context, guid string) ([]*MediaItem, error)

	// FindByTitle searches the library by title. A year of 0 means no
	// year filter.
	FindByTitle(ctx context.Context, title string, year int) ([]*MediaItem, error)
}
