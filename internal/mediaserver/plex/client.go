package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Plexport/1.0"
	clientID       = "plexport-cli-client"
	productName    = "Plexport"
)

// Client implements domain.PlaylistRepository and domain.ItemFinder for Plex
type Client struct {
	baseURL           string
	token             string
	machineIdentifier string // fetched from /identity on init
	friendlyName      string // fetched from the server root on init
	httpClient        *http.Client
	logger            *slog.Logger
}

// NewClient creates a new Plex API client. Credentials are explicit
// constructor arguments; the client never reads process-wide state.
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchIdentity fetches and stores the server's machineIdentifier and
// friendly name. The machineIdentifier is required for playlist writes.
func (c *Client) FetchIdentity(ctx context.Context) error {
	body, err := c.doRequest(ctx, http.MethodGet, "/identity", nil)
	if err != nil {
		return err
	}

	var identity APIResponse
	if err := json.Unmarshal(body, &identity); err != nil {
		return fmt.Errorf("failed to parse identity: %w", err)
	}
	c.machineIdentifier = identity.MediaContainer.MachineIdentifier

	// The friendly name lives on the server root, not /identity
	if body, err := c.doRequest(ctx, http.MethodGet, "/", nil); err == nil {
		var root APIResponse
		if json.Unmarshal(body, &root) == nil {
			c.friendlyName = root.MediaContainer.FriendlyName
		}
	}

	return nil
}

// ServerName returns the server's friendly name, or the base URL when the
// name has not been fetched
func (c *Client) ServerName() string {
	if c.friendlyName != "" {
		return c.friendlyName
	}
	return c.baseURL
}

// doRequest performs an authenticated HTTP request and returns the body
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", clientID)
	req.Header.Set("X-Plex-Product", productName)
	req.Header.Set("X-Plex-Version", "1.0")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("plex request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("plex request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return body, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusNotFound:
		return nil, domain.ErrItemNotFound
	default:
		c.logger.Error("plex request error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// parseResponse parses a JSON response into a MediaContainer
func (c *Client) parseResponse(body []byte) (*MediaContainer, error) {
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp.MediaContainer, nil
}

// itemURI builds the canonical Plex URI for a set of library items
func (c *Client) itemURI(itemIDs ...string) string {
	return fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		c.machineIdentifier, strings.Join(itemIDs, ","))
}

// GetPlaylists returns all user playlists in server enumeration order
func (c *Client) GetPlaylists(ctx context.Context) ([]*domain.Playlist, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/playlists", nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapPlaylists(container.Metadata), nil
}

// GetPlaylistItems returns all items in a playlist, in playlist order
func (c *Client) GetPlaylistItems(ctx context.Context, playlistID string) ([]*domain.MediaItem, error) {
	path := fmt.Sprintf("/playlists/%s/items", playlistID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(container.Metadata), nil
}

// CreatePlaylist creates a new playlist with the given title and initial items.
// Plex does not support creating empty playlists, so at least one itemID is
// required. Item order in itemIDs is preserved.
func (c *Client) CreatePlaylist(ctx context.Context, title string, itemIDs []string) (*domain.Playlist, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("plex does not support creating empty playlists")
	}

	query := url.Values{}
	query.Set("type", "video")
	query.Set("title", title)
	query.Set("smart", "0")
	query.Set("uri", c.itemURI(itemIDs...))

	body, err := c.doRequest(ctx, http.MethodPost, "/playlists", query)
	if err != nil {
		c.logger.Error("plex create playlist failed", "error", err, "title", title)
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	playlists := MapPlaylists(container.Metadata)
	if len(playlists) == 0 {
		return nil, fmt.Errorf("no playlist returned from server")
	}

	return playlists[0], nil
}

// AddToPlaylist appends items to an existing playlist.
// Items are added one at a time so the append order is deterministic.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error {
	path := fmt.Sprintf("/playlists/%s/items", playlistID)

	for _, itemID := range itemIDs {
		query := url.Values{}
		query.Set("uri", c.itemURI(itemID))

		if _, err := c.doRequest(ctx, http.MethodPut, path, query); err != nil {
			c.logger.Error("plex add to playlist failed", "error", err,
				"playlistID", playlistID, "itemID", itemID)
			return err
		}
	}

	return nil
}

// RemoveFromPlaylist removes an item from a playlist.
// Plex requires the playlist-specific entry ID (playlistItemID), not the
// media's ratingKey, so playlist items are fetched to resolve it.
func (c *Client) RemoveFromPlaylist(ctx context.Context, playlistID string, itemID string) error {
	path := fmt.Sprintf("/playlists/%s/items", playlistID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return err
	}

	var entryID int
	found := false
	for _, m := range container.Metadata {
		if m.RatingKey == itemID && m.PlaylistItemID > 0 {
			entryID = m.PlaylistItemID
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("item %s not found in playlist %s: %w", itemID, playlistID, domain.ErrItemNotFound)
	}

	deletePath := fmt.Sprintf("/playlists/%s/items/%d", playlistID, entryID)
	if _, err := c.doRequest(ctx, http.MethodDelete, deletePath, nil); err != nil {
		c.logger.Error("plex remove from playlist failed", "error", err, "playlistID", playlistID)
		return err
	}

	return nil
}

// SetPlaylistItems replaces the entire contents of a playlist with the given
// items, in order. The playlist keeps its identity; contents are cleared and
// re-added rather than the playlist being deleted and recreated.
func (c *Client) SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error {
	clearPath := fmt.Sprintf("/playlists/%s/items", playlistID)
	if _, err := c.doRequest(ctx, http.MethodDelete, clearPath, nil); err != nil {
		c.logger.Error("plex clear playlist failed", "error", err, "playlistID", playlistID)
		return err
	}

	return c.AddToPlaylist(ctx, playlistID, itemIDs)
}

// RenamePlaylist changes a playlist's title
func (c *Client) RenamePlaylist(ctx context.Context, playlistID string, title string) error {
	query := url.Values{}
	query.Set("title", title)

	path := fmt.Sprintf("/playlists/%s", playlistID)
	if _, err := c.doRequest(ctx, http.MethodPut, path, query); err != nil {
		c.logger.Error("plex rename playlist failed", "error", err, "playlistID", playlistID)
		return err
	}

	return nil
}

// DeletePlaylist deletes a playlist
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	path := fmt.Sprintf("/playlists/%s", playlistID)
	if _, err := c.doRequest(ctx, http.MethodDelete, path, nil); err != nil {
		c.logger.Error("plex delete playlist failed", "error", err, "playlistID", playlistID)
		return err
	}

	return nil
}

// FetchItem returns the library item with the given rating key
func (c *Client) FetchItem(ctx context.Context, itemID string) (*domain.MediaItem, error) {
	path := fmt.Sprintf("/library/metadata/%s", itemID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	items := MapItems(container.Metadata)
	if len(items) == 0 {
		return nil, domain.ErrItemNotFound
	}

	return items[0], nil
}

// FindByGUID returns library items carrying the given external identifier
func (c *Client) FindByGUID(ctx context.Context, guid string) ([]*domain.MediaItem, error) {
	query := url.Values{}
	query.Set("guid", guid)

	body, err := c.doRequest(ctx, http.MethodGet, "/library/all", query)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	return MapItems(container.Metadata), nil
}

// FindByTitle searches the library by title. A year of 0 means no year filter.
func (c *Client) FindByTitle(ctx context.Context, title string, year int) ([]*domain.MediaItem, error) {
	query := url.Values{}
	query.Set("query", title)

	body, err := c.doRequest(ctx, http.MethodGet, "/search", query)
	if err != nil {
		return nil, err
	}

	container, err := c.parseResponse(body)
	if err != nil {
		return nil, err
	}

	items := MapItems(container.Metadata)
	if year == 0 {
		return items, nil
	}

	filtered := items[:0]
	for _, item := range items {
		if item.Year == year {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// compile-time interface checks
var (
	_ domain.PlaylistRepository = (*Client)(nil)
	_ domain.ItemFinder         = (*Client)(nil)
)
