// Package service orchestrates the export, import, reorder, and delete
// workflows over a media server client, the export document codec, and the
// local playlist cache. Each workflow runs as one logical worker: blocking
// network calls are the only suspension points, and cancellation takes
// effect between playlists, never mid-call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
	"github.com/jeffparker/plexport/internal/resolve"
)

// Store is the cache surface the service needs; satisfied by
// store.PlaylistStore
type Store interface {
	SavePlaylists(playlists []*domain.Playlist) error
	GetPlaylists() ([]*domain.Playlist, bool)
	SavePlaylistItems(playlistID string, items []*domain.MediaItem) error
	GetPlaylistItems(playlistID string) ([]*domain.MediaItem, bool)
	InvalidatePlaylists()
	InvalidatePlaylistItems(playlistID string)
}

// PlaylistService coordinates playlist workflows against one server
type PlaylistService struct {
	repo       domain.PlaylistRepository
	matcher    *Matcher
	store      Store
	serverName string
	logger     *slog.Logger
}

// NewPlaylistService creates the playlist service
func NewPlaylistService(repo domain.PlaylistRepository, finder domain.ItemFinder, st Store, serverName string, logger *slog.Logger) *PlaylistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistService{
		repo:       repo,
		matcher:    NewMatcher(finder, logger),
		store:      st,
		serverName: serverName,
		logger:     logger,
	}
}

// GetPlaylists returns all playlists, from cache unless refresh is set
func (s *PlaylistService) GetPlaylists(ctx context.Context, refresh bool) ([]*domain.Playlist, error) {
	if !refresh {
		if playlists, ok := s.store.GetPlaylists(); ok {
			return playlists, nil
		}
	}

	playlists, err := s.repo.GetPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePlaylists(playlists); err != nil {
		s.logger.Warn("failed to cache playlists", "error", err)
	}
	return playlists, nil
}

// GetPlaylistItems returns a playlist's items, from cache unless refresh is set
func (s *PlaylistService) GetPlaylistItems(ctx context.Context, playlistID string, refresh bool) ([]*domain.MediaItem, error) {
	if !refresh {
		if items, ok := s.store.GetPlaylistItems(playlistID); ok {
			return items, nil
		}
	}

	items, err := s.repo.GetPlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePlaylistItems(playlistID, items); err != nil {
		s.logger.Warn("failed to cache playlist items", "error", err, "playlistID", playlistID)
	}
	return items, nil
}

// ProgressFunc reports workflow progress as (done, total)
type ProgressFunc func(done, total int)

// Export writes the given playlists to a JSON document at path. Playlists
// appear in the document in the order given (the caller passes server
// enumeration order); item order within each playlist is preserved exactly.
func (s *PlaylistService) Export(ctx context.Context, playlists []*domain.Playlist, path string, onProgress ProgressFunc) (*exportfile.Document, error) {
	doc := &exportfile.Document{
		Version:    exportfile.FormatVersion,
		ExportedAt: time.Now().UTC(),
		Server:     s.serverName,
		Playlists:  make([]exportfile.Playlist, 0, len(playlists)),
	}

	for i, p := range playlists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := s.repo.GetPlaylistItems(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch items for %q: %w", p.Title, err)
		}

		entries := make([]exportfile.Item, 0, len(items))
		for _, item := range items {
			entries = append(entries, exportfile.NewItem(item))
		}

		doc.Playlists = append(doc.Playlists, exportfile.Playlist{
			Name:        p.Title,
			Description: p.Summary,
			Items:       entries,
		})

		if onProgress != nil {
			onProgress(i+1, len(playlists))
		}
	}

	if err := exportfile.WriteFile(path, doc); err != nil {
		return nil, err
	}

	s.logger.Info("exported playlists", "count", len(doc.Playlists), "path", path)
	return doc, nil
}

// ExportCSV writes a single playlist to a CSV file
func (s *PlaylistService) ExportCSV(ctx context.Context, playlist *domain.Playlist, path string) error {
	items, err := s.repo.GetPlaylistItems(ctx, playlist.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch items for %q: %w", playlist.Title, err)
	}

	entries := make([]exportfile.Item, 0, len(items))
	for _, item := range items {
		entries = append(entries, exportfile.NewItem(item))
	}

	if err := exportfile.WriteCSVFile(path, entries); err != nil {
		return err
	}

	s.logger.Info("exported playlist to CSV", "playlist", playlist.Title, "path", path)
	return nil
}

// LoadDocument reads an import file. JSON files decode as full documents;
// CSV files become a single-playlist document named after the file.
func (s *PlaylistService) LoadDocument(path string) (*exportfile.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		playlist, err := exportfile.ReadCSVFile(path)
		if err != nil {
			return nil, err
		}
		return &exportfile.Document{
			Version:   exportfile.FormatVersion,
			Playlists: []exportfile.Playlist{*playlist},
		}, nil
	}
	return exportfile.ReadFile(path)
}

// PreviewImport returns the playlist names in an import file without
// touching the server
func (s *PlaylistService) PreviewImport(path string) ([]string, error) {
	doc, err := s.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Playlists))
	for _, p := range doc.Playlists {
		names = append(names, p.Name)
	}
	return names, nil
}

// ImportOptions configures one import batch
type ImportOptions struct {
	// Policy is the default conflict policy for every playlist in the batch
	Policy resolve.Policy

	// Renames maps original playlist names to user-chosen target names
	Renames map[string]string

	// Selected limits the import to the named playlists; nil imports all
	Selected map[string]bool

	// MissingReportPath, when set, receives a JSON report of items that
	// could not be matched on the destination server
	MissingReportPath string
}

// ImportHooks carries the UI callbacks for one import batch. All fields are
// optional.
type ImportHooks struct {
	// OnPlaylistStart fires before each playlist is processed
	OnPlaylistStart func(name string, index, total int)

	// OnItemProgress fires after each item match attempt within a playlist
	OnItemProgress func(name string, done, total int)

	// Decide supplies a concrete policy when the batch policy is Ask and
	// the target name collides. It blocks only the playlist being
	// processed. A nil Decide skips conflicted playlists.
	Decide func(name string) resolve.Policy
}

// ImportResult is the per-playlist outcome of an import batch
type ImportResult struct {
	Name      string             // Original name in the document
	FinalName string             // Name actually used on the server
	Action    resolve.ActionKind // How the conflict (if any) resolved
	Requested int                // Items in the document
	Matched   int                // Items found on the destination server
	Err       error              // Write or resolution failure, nil on success
}

// Summary renders the result in the "name: added m/n" form
func (r ImportResult) Summary() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: failed: %v", r.FinalName, r.Err)
	}
	if r.Action == resolve.ActionSkip {
		return fmt.Sprintf("%s: skipped (name already in use)", r.FinalName)
	}
	return fmt.Sprintf("%s: added %d/%d", r.FinalName, r.Matched, r.Requested)
}

// Import processes a decoded document sequentially in document order.
// A failure on one playlist is recorded in its result and does not abort
// the batch; cancellation stops before the next not-yet-started playlist
// while the in-flight server call is allowed to complete.
func (s *PlaylistService) Import(ctx context.Context, doc *exportfile.Document, opts ImportOptions, hooks ImportHooks) ([]ImportResult, error) {
	existing, err := s.repo.GetPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing playlists: %w", err)
	}

	existingNames := make(map[string]bool, len(existing))
	idByName := make(map[string]string, len(existing))
	for _, p := range existing {
		existingNames[p.Title] = true
		idByName[p.Title] = p.ID
	}

	selected := doc.Playlists
	if opts.Selected != nil {
		filtered := make([]exportfile.Playlist, 0, len(doc.Playlists))
		for _, p := range doc.Playlists {
			if opts.Selected[p.Name] {
				filtered = append(filtered, p)
			}
		}
		selected = filtered
	}

	var results []ImportResult
	var missing []exportfile.MissingItem

	for i, p := range selected {
		if err := ctx.Err(); err != nil {
			s.finishImport(opts, missing)
			return results, err
		}

		if hooks.OnPlaylistStart != nil {
			hooks.OnPlaylistStart(p.Name, i, len(selected))
		}

		target := p.Name
		if renamed, ok := opts.Renames[p.Name]; ok && renamed != "" {
			target = renamed
		}

		result, playlistMissing, err := s.importOne(ctx, p, target, existingNames, idByName, opts.Policy, hooks)
		missing = append(missing, playlistMissing...)
		results = append(results, result)
		if err != nil {
			// Batch-fatal: cancellation or auth failure
			s.finishImport(opts, missing)
			return results, err
		}

		if result.Err == nil && result.Action == resolve.ActionCreate {
			existingNames[result.FinalName] = true
		}
	}

	s.finishImport(opts, missing)
	s.logger.Info("import finished", "playlists", len(results))
	return results, nil
}

// importOne runs the per-playlist state machine: resolve, match, write.
// The returned error is batch-fatal; per-playlist failures land in the
// result instead.
func (s *PlaylistService) importOne(ctx context.Context, p exportfile.Playlist, target string, existingNames map[string]bool, idByName map[string]string, policy resolve.Policy, hooks ImportHooks) (ImportResult, []exportfile.MissingItem, error) {
	result := ImportResult{
		Name:      p.Name,
		FinalName: target,
		Requested: len(p.Items),
	}

	action := resolve.Resolve(target, existingNames, policy)
	if action.Kind == resolve.ActionNeedsDecision {
		if hooks.Decide == nil {
			action = resolve.Action{Kind: resolve.ActionSkip, Name: target}
		} else {
			decided := hooks.Decide(target)
			if decided == resolve.PolicyAsk {
				// The caller declined to decide; treat as skip
				action = resolve.Action{Kind: resolve.ActionSkip, Name: target}
			} else {
				action = resolve.Resolve(target, existingNames, decided)
			}
		}
	}

	result.Action = action.Kind
	result.FinalName = action.Name

	if action.Kind == resolve.ActionSkip {
		s.logger.Info("skipped playlist on name collision", "name", target)
		return result, nil, nil
	}

	itemIDs, playlistMissing, err := s.matchItems(ctx, p, hooks)
	result.Matched = len(itemIDs)
	if err != nil {
		result.Err = err
		return result, playlistMissing, err
	}

	if len(itemIDs) == 0 {
		result.Err = fmt.Errorf("no items matched on this server")
		return result, playlistMissing, nil
	}

	switch action.Kind {
	case resolve.ActionCreate:
		if _, err := s.repo.CreatePlaylist(ctx, action.Name, itemIDs); err != nil {
			result.Err = err
			return result, playlistMissing, s.batchFatal(ctx, err)
		}
	case resolve.ActionReplace:
		playlistID, ok := idByName[action.Name]
		if !ok {
			result.Err = domain.ErrPlaylistNotFound
			return result, playlistMissing, nil
		}
		if err := s.repo.SetPlaylistItems(ctx, playlistID, itemIDs); err != nil {
			result.Err = err
			return result, playlistMissing, s.batchFatal(ctx, err)
		}
		s.store.InvalidatePlaylistItems(playlistID)
	}

	s.logger.Info("imported playlist", "name", action.Name,
		"matched", result.Matched, "requested", result.Requested)
	return result, playlistMissing, nil
}

// matchItems resolves document entries to server item IDs, in order
func (s *PlaylistService) matchItems(ctx context.Context, p exportfile.Playlist, hooks ImportHooks) ([]string, []exportfile.MissingItem, error) {
	var itemIDs []string
	var missing []exportfile.MissingItem

	for i, entry := range p.Items {
		item, err := s.matcher.Match(ctx, entry)
		if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
			return itemIDs, missing, err
		}

		if item != nil {
			itemIDs = append(itemIDs, item.ID)
		} else {
			missing = append(missing, exportfile.MissingItem{Playlist: p.Name, Item: entry})
		}

		if hooks.OnItemProgress != nil {
			hooks.OnItemProgress(p.Name, i+1, len(p.Items))
		}
	}

	return itemIDs, missing, nil
}

// batchFatal decides whether a write error should abort the whole batch.
// Cancellation and auth failures are fatal; plain transport errors stay
// confined to the playlist that hit them.
func (s *PlaylistService) batchFatal(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, domain.ErrAuthFailed) {
		return err
	}
	return nil
}

// finishImport invalidates caches and writes the missing-items report
func (s *PlaylistService) finishImport(opts ImportOptions, missing []exportfile.MissingItem) {
	s.store.InvalidatePlaylists()

	if opts.MissingReportPath == "" {
		return
	}
	if err := exportfile.WriteMissingReport(opts.MissingReportPath, missing); err != nil {
		s.logger.Warn("failed to write missing-items report", "error", err)
	}
}

// SortByYear reorders a playlist by (year, title) and writes the new order
// back. Returns false without writing when the playlist is already in
// order, which keeps repeated runs idempotent and cheap.
func (s *PlaylistService) SortByYear(ctx context.Context, playlist *domain.Playlist) (bool, error) {
	if playlist.Smart {
		return false, domain.ErrSmartPlaylist
	}

	items, err := s.repo.GetPlaylistItems(ctx, playlist.ID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch items for %q: %w", playlist.Title, err)
	}

	sorted := SortItemsForModify(items)
	if sameOrder(items, sorted) {
		s.logger.Info("playlist already sorted", "name", playlist.Title)
		return false, nil
	}

	itemIDs := make([]string, 0, len(sorted))
	for _, item := range sorted {
		itemIDs = append(itemIDs, item.ID)
	}

	if err := s.repo.SetPlaylistItems(ctx, playlist.ID, itemIDs); err != nil {
		return false, err
	}

	s.store.InvalidatePlaylistItems(playlist.ID)
	s.store.InvalidatePlaylists()
	s.logger.Info("sorted playlist by year", "name", playlist.Title, "items", len(itemIDs))
	return true, nil
}

// DeleteResult is the per-playlist outcome of a delete batch
type DeleteResult struct {
	Playlist *domain.Playlist
	Err      error
}

// Delete removes the given playlists sequentially. One failure does not
// abort the batch; cancellation stops before the next playlist.
func (s *PlaylistService) Delete(ctx context.Context, playlists []*domain.Playlist) ([]DeleteResult, error) {
	results := make([]DeleteResult, 0, len(playlists))

	for _, p := range playlists {
		if err := ctx.Err(); err != nil {
			s.store.InvalidatePlaylists()
			return results, err
		}

		err := s.repo.DeletePlaylist(ctx, p.ID)
		if err != nil {
			s.logger.Error("failed to delete playlist", "name", p.Title, "error", err)
		} else {
			s.store.InvalidatePlaylistItems(p.ID)
		}
		results = append(results, DeleteResult{Playlist: p, Err: err})
	}

	s.store.InvalidatePlaylists()
	return results, nil
}

// Rename changes a playlist's title on the server
func (s *PlaylistService) Rename(ctx context.Context, playlist *domain.Playlist, title string) error {
	if err := s.repo.RenamePlaylist(ctx, playlist.ID, title); err != nil {
		return err
	}
	s.store.InvalidatePlaylists()
	return nil
}
