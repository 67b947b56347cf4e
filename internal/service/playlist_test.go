package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
	"github.com/jeffparker/plexport/internal/log"
	"github.com/jeffparker/plexport/internal/resolve"
)

// fakeServer implements PlaylistRepository and ItemFinder over in-memory
// state, recording every write for assertions
type fakeServer struct {
	playlists []*domain.Playlist
	items     map[string][]*domain.MediaItem // Playlist ID -> items
	library   []*domain.MediaItem

	nextID  int
	created []string // Titles passed to CreatePlaylist
	setOps  map[string][]string
	deleted []string

	listErr   error
	createErr error
	setErr    error
	deleteErr error
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		items:  make(map[string][]*domain.MediaItem),
		setOps: make(map[string][]string),
		nextID: 1000,
	}
}

func (f *fakeServer) addPlaylist(title string, items ...*domain.MediaItem) *domain.Playlist {
	f.nextID++
	p := &domain.Playlist{ID: fmt.Sprintf("%d", f.nextID), Title: title, ItemCount: len(items)}
	f.playlists = append(f.playlists, p)
	f.items[p.ID] = items
	return p
}

func (f *fakeServer) GetPlaylists(ctx context.Context) ([]*domain.Playlist, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.playlists, nil
}

func (f *fakeServer) GetPlaylistItems(ctx context.Context, playlistID string) ([]*domain.MediaItem, error) {
	items, ok := f.items[playlistID]
	if !ok {
		return nil, domain.ErrPlaylistNotFound
	}
	return items, nil
}

func (f *fakeServer) CreatePlaylist(ctx context.Context, title string, itemIDs []string) (*domain.Playlist, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, title)
	p := f.addPlaylist(title)
	f.setOps[title] = itemIDs
	return p, nil
}

func (f *fakeServer) AddToPlaylist(ctx context.Context, playlistID string, itemIDs []string) error {
	return nil
}

func (f *fakeServer) RemoveFromPlaylist(ctx context.Context, playlistID string, itemID string) error {
	return nil
}

func (f *fakeServer) SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setOps[playlistID] = itemIDs
	return nil
}

func (f *fakeServer) RenamePlaylist(ctx context.Context, playlistID string, title string) error {
	for _, p := range f.playlists {
		if p.ID == playlistID {
			p.Title = title
			return nil
		}
	}
	return domain.ErrPlaylistNotFound
}

func (f *fakeServer) DeletePlaylist(ctx context.Context, playlistID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, playlistID)
	return nil
}

func (f *fakeServer) FetchItem(ctx context.Context, itemID string) (*domain.MediaItem, error) {
	for _, item := range f.library {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *fakeServer) FindByGUID(ctx context.Context, guid string) ([]*domain.MediaItem, error) {
	var found []*domain.MediaItem
	for _, item := range f.library {
		if item.GUID == guid {
			found = append(found, item)
		}
	}
	return found, nil
}

func (f *fakeServer) FindByTitle(ctx context.Context, title string, year int) ([]*domain.MediaItem, error) {
	var found []*domain.MediaItem
	for _, item := range f.library {
		if year > 0 && item.Year != year {
			continue
		}
		found = append(found, item)
	}
	return found, nil
}

// memStore is an in-memory Store for tests
type memStore struct {
	playlists []*domain.Playlist
	hasLists  bool
	items     map[string][]*domain.MediaItem
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string][]*domain.MediaItem)}
}

func (s *memStore) SavePlaylists(playlists []*domain.Playlist) error {
	s.playlists = playlists
	s.hasLists = true
	return nil
}

func (s *memStore) GetPlaylists() ([]*domain.Playlist, bool) {
	return s.playlists, s.hasLists
}

func (s *memStore) SavePlaylistItems(playlistID string, items []*domain.MediaItem) error {
	s.items[playlistID] = items
	return nil
}

func (s *memStore) GetPlaylistItems(playlistID string) ([]*domain.MediaItem, bool) {
	items, ok := s.items[playlistID]
	return items, ok
}

func (s *memStore) InvalidatePlaylists() {
	s.playlists = nil
	s.hasLists = false
}

func (s *memStore) InvalidatePlaylistItems(playlistID string) {
	delete(s.items, playlistID)
}

func newTestService(server *fakeServer) *PlaylistService {
	return NewPlaylistService(server, server, newMemStore(), "Test Server", log.NullLogger())
}

func TestExportPreservesOrder(t *testing.T) {
	server := newFakeServer()
	a := item("1", "Zulu", 2001)
	b := item("2", "Alpha", 1990)
	p1 := server.addPlaylist("Mix", a, b)
	p2 := server.addPlaylist("Other", b)

	svc := newTestService(server)
	path := filepath.Join(t.TempDir(), "out.json")

	doc, err := svc.Export(context.Background(), []*domain.Playlist{p1, p2}, path, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if doc.Server != "Test Server" {
		t.Errorf("server = %q", doc.Server)
	}
	if len(doc.Playlists) != 2 {
		t.Fatalf("playlists = %d, want 2", len(doc.Playlists))
	}
	if doc.Playlists[0].Name != "Mix" || doc.Playlists[1].Name != "Other" {
		t.Errorf("order = %q, %q", doc.Playlists[0].Name, doc.Playlists[1].Name)
	}
	// Item order inside a playlist is export order, never sorted
	got := doc.Playlists[0].Items
	if got[0].Title != "Zulu" || got[1].Title != "Alpha" {
		t.Errorf("item order = %q, %q", got[0].Title, got[1].Title)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file not written: %v", err)
	}
}

func TestImportCreatesPlaylist(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{
		item("10", "Alien", 1979),
		item("11", "Blade Runner", 1982),
	}

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name: "Sci-Fi",
			Items: []exportfile.Item{
				{ID: "10", Title: "Alien", Year: 1979, Type: "movie"},
				{ID: "11", Title: "Blade Runner", Year: 1982, Type: "movie"},
			},
		}},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{}, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	r := results[0]
	if r.Action != resolve.ActionCreate || r.Err != nil {
		t.Errorf("result = %+v", r)
	}
	if r.Matched != 2 || r.Requested != 2 {
		t.Errorf("matched %d/%d, want 2/2", r.Matched, r.Requested)
	}
	if len(server.created) != 1 || server.created[0] != "Sci-Fi" {
		t.Errorf("created = %v", server.created)
	}
	if got := server.setOps["Sci-Fi"]; len(got) != 2 || got[0] != "10" || got[1] != "11" {
		t.Errorf("item IDs = %v", got)
	}
}

func TestImportConflictPolicies(t *testing.T) {
	tests := []struct {
		name       string
		policy     resolve.Policy
		wantAction resolve.ActionKind
		wantFinal  string
	}{
		{name: "rename", policy: resolve.PolicyRename, wantAction: resolve.ActionCreate, wantFinal: "Mix (2)"},
		{name: "overwrite", policy: resolve.PolicyOverwrite, wantAction: resolve.ActionReplace, wantFinal: "Mix"},
		{name: "skip", policy: resolve.PolicySkip, wantAction: resolve.ActionSkip, wantFinal: "Mix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newFakeServer()
			existing := server.addPlaylist("Mix", item("1", "Old", 1990))
			server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

			svc := newTestService(server)
			doc := &exportfile.Document{
				Version: exportfile.FormatVersion,
				Playlists: []exportfile.Playlist{{
					Name:  "Mix",
					Items: []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}},
				}},
			}

			results, err := svc.Import(context.Background(), doc, ImportOptions{Policy: tt.policy}, ImportHooks{})
			if err != nil {
				t.Fatalf("Import: %v", err)
			}

			r := results[0]
			if r.Action != tt.wantAction {
				t.Errorf("action = %v, want %v", r.Action, tt.wantAction)
			}
			if r.FinalName != tt.wantFinal {
				t.Errorf("final name = %q, want %q", r.FinalName, tt.wantFinal)
			}

			switch tt.wantAction {
			case resolve.ActionReplace:
				// Contents replaced under the original playlist ID
				if got := server.setOps[existing.ID]; len(got) != 1 || got[0] != "10" {
					t.Errorf("replace wrote %v", got)
				}
			case resolve.ActionSkip:
				if len(server.created) != 0 || len(server.setOps) != 0 {
					t.Errorf("skip wrote to the server: created=%v setOps=%v", server.created, server.setOps)
				}
			}
		})
	}
}

func TestImportAskDecisionHook(t *testing.T) {
	server := newFakeServer()
	server.addPlaylist("Mix", item("1", "Old", 1990))
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name:  "Mix",
			Items: []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}},
		}},
	}

	var asked []string
	hooks := ImportHooks{
		Decide: func(name string) resolve.Policy {
			asked = append(asked, name)
			return resolve.PolicyRename
		},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{Policy: resolve.PolicyAsk}, hooks)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(asked) != 1 || asked[0] != "Mix" {
		t.Errorf("asked = %v", asked)
	}
	if results[0].FinalName != "Mix (2)" {
		t.Errorf("final name = %q", results[0].FinalName)
	}
}

func TestImportAskWithoutHookSkips(t *testing.T) {
	server := newFakeServer()
	server.addPlaylist("Mix", item("1", "Old", 1990))

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name:  "Mix",
			Items: []exportfile.Item{{Title: "Alien", Type: "movie"}},
		}},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{Policy: resolve.PolicyAsk}, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if results[0].Action != resolve.ActionSkip {
		t.Errorf("action = %v, want ActionSkip", results[0].Action)
	}
}

func TestImportRenameWithinBatch(t *testing.T) {
	// Two document playlists with the same name: the second must see the
	// name the first one just created
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	entry := []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}}
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "Mix", Items: entry},
			{Name: "Mix", Items: entry},
		},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{Policy: resolve.PolicyRename}, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if results[0].FinalName != "Mix" || results[1].FinalName != "Mix (2)" {
		t.Errorf("final names = %q, %q", results[0].FinalName, results[1].FinalName)
	}
}

func TestImportSelectedSubset(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	entry := []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}}
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "Wanted", Items: entry},
			{Name: "Ignored", Items: entry},
		},
	}

	opts := ImportOptions{Selected: map[string]bool{"Wanted": true}}
	results, err := svc.Import(context.Background(), doc, opts, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Wanted" {
		t.Errorf("results = %+v", results)
	}
	if len(server.created) != 1 || server.created[0] != "Wanted" {
		t.Errorf("created = %v", server.created)
	}
}

func TestImportUserRenames(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name:  "Old Name",
			Items: []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}},
		}},
	}

	opts := ImportOptions{Renames: map[string]string{"Old Name": "New Name"}}
	results, err := svc.Import(context.Background(), doc, opts, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if results[0].Name != "Old Name" || results[0].FinalName != "New Name" {
		t.Errorf("result = %+v", results[0])
	}
	if len(server.created) != 1 || server.created[0] != "New Name" {
		t.Errorf("created = %v", server.created)
	}
}

func TestImportMissingItemsReport(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name: "Mix",
			Items: []exportfile.Item{
				{ID: "10", Title: "Alien", Type: "movie"},
				{Title: "Nowhere To Be Found", Year: 2025, Type: "movie"},
			},
		}},
	}

	reportPath := filepath.Join(t.TempDir(), "missing.json")
	opts := ImportOptions{MissingReportPath: reportPath}

	results, err := svc.Import(context.Background(), doc, opts, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if results[0].Matched != 1 || results[0].Requested != 2 {
		t.Errorf("matched %d/%d, want 1/2", results[0].Matched, results[0].Requested)
	}
	if results[0].Err != nil {
		t.Errorf("partial match should not fail the playlist: %v", results[0].Err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("missing report not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("missing report is empty")
	}
}

func TestImportNoMatchesFailsPlaylist(t *testing.T) {
	server := newFakeServer()

	svc := newTestService(server)
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{{
			Name:  "Mix",
			Items: []exportfile.Item{{Title: "Ghost", Type: "movie"}},
		}},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{}, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if results[0].Err == nil {
		t.Error("expected per-playlist error when nothing matched")
	}
	if len(server.created) != 0 {
		t.Errorf("created = %v, want none", server.created)
	}
}

func TestImportWriteFailureDoesNotAbortBatch(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}
	server.createErr = errors.New("boom")

	svc := newTestService(server)
	entry := []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}}
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "First", Items: entry},
			{Name: "Second", Items: entry},
		},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{}, ImportHooks{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.Err == nil {
			t.Errorf("result %d: expected error", i)
		}
	}
}

func TestImportAuthFailureAbortsBatch(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}
	server.createErr = domain.ErrAuthFailed

	svc := newTestService(server)
	entry := []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}}
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "First", Items: entry},
			{Name: "Second", Items: entry},
		},
	}

	results, err := svc.Import(context.Background(), doc, ImportOptions{}, ImportHooks{})
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1 (batch aborted)", len(results))
	}
}

func TestImportCancellationStopsBetweenPlaylists(t *testing.T) {
	server := newFakeServer()
	server.library = []*domain.MediaItem{item("10", "Alien", 1979)}

	svc := newTestService(server)
	entry := []exportfile.Item{{ID: "10", Title: "Alien", Type: "movie"}}
	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "First", Items: entry},
			{Name: "Second", Items: entry},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	hooks := ImportHooks{
		OnPlaylistStart: func(name string, index, total int) {
			if index == 0 {
				cancel()
			}
		},
	}

	// Cancel fires after the first playlist starts: the first completes,
	// the second never begins
	results, err := svc.Import(ctx, doc, ImportOptions{}, hooks)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
	if len(server.created) != 1 {
		t.Errorf("created = %v, want just the first", server.created)
	}
}

func TestSortByYearWritesNewOrder(t *testing.T) {
	server := newFakeServer()
	p := server.addPlaylist("Mix",
		item("1", "Zodiac", 2007),
		item("2", "Alien", 1979),
		item("3", "Nameless", 0),
	)

	svc := newTestService(server)
	changed, err := svc.SortByYear(context.Background(), p)
	if err != nil {
		t.Fatalf("SortByYear: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}
	if got := server.setOps[p.ID]; len(got) != 3 || got[0] != "2" || got[1] != "1" || got[2] != "3" {
		t.Errorf("written order = %v", got)
	}
}

func TestSortByYearNoopWhenSorted(t *testing.T) {
	server := newFakeServer()
	p := server.addPlaylist("Mix",
		item("1", "Alien", 1979),
		item("2", "Zodiac", 2007),
	)

	svc := newTestService(server)
	changed, err := svc.SortByYear(context.Background(), p)
	if err != nil {
		t.Fatalf("SortByYear: %v", err)
	}
	if changed {
		t.Error("changed = true for an already-sorted playlist")
	}
	if _, wrote := server.setOps[p.ID]; wrote {
		t.Error("server write issued for a no-op sort")
	}
}

func TestSortByYearRejectsSmartPlaylist(t *testing.T) {
	server := newFakeServer()
	p := server.addPlaylist("Smart Mix")
	p.Smart = true

	svc := newTestService(server)
	_, err := svc.SortByYear(context.Background(), p)
	if !errors.Is(err, domain.ErrSmartPlaylist) {
		t.Errorf("err = %v, want ErrSmartPlaylist", err)
	}
}

func TestDeleteContinuesPastFailures(t *testing.T) {
	server := newFakeServer()
	p1 := server.addPlaylist("One")
	p2 := server.addPlaylist("Two")

	// First delete fails, second succeeds
	failing := &flakyDeleter{fakeServer: server, failOn: p1.ID}
	svc := NewPlaylistService(failing, server, newMemStore(), "Test Server", log.NullLogger())

	results, err := svc.Delete(context.Background(), []*domain.Playlist{p1, p2})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("first delete should have failed")
	}
	if results[1].Err != nil {
		t.Errorf("second delete failed: %v", results[1].Err)
	}
}

// flakyDeleter fails DeletePlaylist for one specific ID
type flakyDeleter struct {
	*fakeServer
	failOn string
}

func (f *flakyDeleter) DeletePlaylist(ctx context.Context, playlistID string) error {
	if playlistID == f.failOn {
		return errors.New("server error")
	}
	return f.fakeServer.DeletePlaylist(ctx, playlistID)
}

func TestGetPlaylistsUsesCache(t *testing.T) {
	server := newFakeServer()
	server.addPlaylist("Mix")

	st := newMemStore()
	svc := NewPlaylistService(server, server, st, "Test Server", log.NullLogger())

	first, err := svc.GetPlaylists(context.Background(), false)
	if err != nil {
		t.Fatalf("GetPlaylists: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("playlists = %d, want 1", len(first))
	}

	// Server grows a playlist; the cached read must not see it
	server.addPlaylist("New")
	cached, err := svc.GetPlaylists(context.Background(), false)
	if err != nil {
		t.Fatalf("GetPlaylists cached: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("cached playlists = %d, want 1", len(cached))
	}

	fresh, err := svc.GetPlaylists(context.Background(), true)
	if err != nil {
		t.Fatalf("GetPlaylists refresh: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("refreshed playlists = %d, want 2", len(fresh))
	}
}

func TestPreviewImport(t *testing.T) {
	server := newFakeServer()
	svc := newTestService(server)

	doc := &exportfile.Document{
		Version: exportfile.FormatVersion,
		Playlists: []exportfile.Playlist{
			{Name: "First", Items: []exportfile.Item{}},
			{Name: "Second", Items: []exportfile.Item{}},
		},
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := exportfile.WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}

	names, err := svc.PreviewImport(path)
	if err != nil {
		t.Fatalf("PreviewImport: %v", err)
	}
	if len(names) != 2 || names[0] != "First" || names[1] != "Second" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadDocumentCSV(t *testing.T) {
	server := newFakeServer()
	svc := newTestService(server)

	path := filepath.Join(t.TempDir(), "Summer Hits.csv")
	csv := "title,year,type\nAlien,1979,movie\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Playlists) != 1 {
		t.Fatalf("playlists = %d, want 1", len(doc.Playlists))
	}
	if doc.Playlists[0].Name != "Summer Hits" {
		t.Errorf("name = %q, want %q", doc.Playlists[0].Name, "Summer Hits")
	}
}
