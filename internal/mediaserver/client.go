package mediaserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeffparker/plexport/internal/config"
	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/mediaserver/plex"
)

// MediaSource combines the repository interfaces a media server backend must
// implement: playlist CRUD plus library lookups for import matching.
type MediaSource interface {
	domain.PlaylistRepository // Playlists: GetPlaylists, CreatePlaylist, SetPlaylistItems, etc.
	domain.ItemFinder         // Matching: FetchItem, FindByGUID, FindByTitle

	// ServerName returns the server's friendly name for display and exports
	ServerName() string
}

// NewClient creates a MediaSource from configuration.
// Credentials come from the config only, never from ambient state.
func NewClient(cfg *config.Config, logger *slog.Logger) (MediaSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Server.URL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	if cfg.Server.Token == "" {
		return nil, fmt.Errorf("server token is required")
	}

	client := plex.NewClient(cfg.Server.URL, cfg.Server.Token, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.FetchIdentity(ctx); err != nil {
		logger.Warn("failed to fetch plex identity", "error", err)
		// Non-fatal: playlist creation will fail but reads work
	}

	return client, nil
}
