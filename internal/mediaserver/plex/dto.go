package plex

// MediaContainer is the root container for Plex API responses
type MediaContainer struct {
	Size              int        `json:"size"`
	TotalSize         int        `json:"totalSize,omitempty"`
	Offset            int        `json:"offset,omitempty"`
	Identifier        string     `json:"identifier,omitempty"`
	MachineIdentifier string     `json:"machineIdentifier,omitempty"`
	FriendlyName      string     `json:"friendlyName,omitempty"`
	Metadata          []Metadata `json:"Metadata,omitempty"`
}

// Guid represents an external identifier (IMDB, TMDB, TVDB, etc.)
type Guid struct {
	ID string `json:"id"` // e.g. "imdb://tt1234567", "tmdb://12345"
}

// Metadata represents a media item or playlist entry
type Metadata struct {
	RatingKey        string `json:"ratingKey"`
	Key              string `json:"key"`
	PlaylistItemID   int    `json:"playlistItemID,omitempty"` // Entry ID within a playlist
	GUID             string `json:"guid,omitempty"`           // Plex internal GUID
	Guids            []Guid `json:"Guid,omitempty"`           // External IDs (IMDB, TMDB, TVDB)
	Type             string `json:"type"`
	Title            string `json:"title"`
	Summary          string `json:"summary,omitempty"`
	Year             int    `json:"year,omitempty"`
	Duration         int    `json:"duration,omitempty"`
	AddedAt          int64  `json:"addedAt,omitempty"`
	UpdatedAt        int64  `json:"updatedAt,omitempty"`
	GrandparentTitle string `json:"grandparentTitle,omitempty"`
	ParentIndex      int    `json:"parentIndex,omitempty"`
	Index            int    `json:"index,omitempty"`

	// Playlist-specific fields
	Smart        int    `json:"smart,omitempty"` // 1 = smart playlist, 0 = regular
	PlaylistType string `json:"playlistType,omitempty"`
	LeafCount    int    `json:"leafCount,omitempty"`
}

// APIResponse wraps the MediaContainer for JSON unmarshaling
type APIResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// PINResponse represents the response from PIN generation
type PINResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	Product   string `json:"product"`
	Trusted   bool   `json:"trusted"`
	ClientID  string `json:"clientIdentifier"`
	AuthToken string `json:"authToken,omitempty"`
	ExpiresAt string `json:"expiresAt"`
}

// PINCheckResponse represents the response from PIN check
type PINCheckResponse struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	AuthToken string `json:"authToken"`
	ExpiresAt string `json:"expiresAt"`
}
