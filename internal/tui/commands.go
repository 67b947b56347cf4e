package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
	"github.com/jeffparker/plexport/internal/resolve"
	"github.com/jeffparker/plexport/internal/service"
)

// Command factories for async operations

// LoadPlaylistsCmd loads server playlists (cached unless refresh is set)
func LoadPlaylistsCmd(svc *service.PlaylistService, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		playlists, err := svc.GetPlaylists(ctx, refresh)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading playlists"}
		}
		return PlaylistsLoadedMsg{Playlists: playlists}
	}
}

// ExportCmd exports the given playlists to a JSON document
func ExportCmd(svc *service.PlaylistService, playlists []*domain.Playlist, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		doc, err := svc.Export(ctx, playlists, path, nil)
		if err != nil {
			return ErrMsg{Err: err, Context: "exporting playlists"}
		}
		return ExportDoneMsg{Path: path, Count: len(doc.Playlists)}
	}
}

// ExportCSVCmd exports a single playlist to CSV
func ExportCSVCmd(svc *service.PlaylistService, playlist *domain.Playlist, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := svc.ExportCSV(ctx, playlist, path); err != nil {
			return ErrMsg{Err: err, Context: "exporting CSV"}
		}
		return CSVExportDoneMsg{Path: path, Name: playlist.Title}
	}
}

// LoadDocumentCmd decodes an import file
func LoadDocumentCmd(svc *service.PlaylistService, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := svc.LoadDocument(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading import file"}
		}
		return DocumentLoadedMsg{Doc: doc, Path: path}
	}
}

// importSession carries the live plumbing for one running import: progress
// and decision-request events flow out on events, conflict answers flow
// back in on decisions, and cancel stops the batch between playlists.
type importSession struct {
	events    chan tea.Msg
	decisions chan resolve.Policy
	cancel    context.CancelFunc
}

func newImportSession(cancel context.CancelFunc) *importSession {
	return &importSession{
		events: make(chan tea.Msg, 16),
		// Buffered so the UI's answer never blocks the update loop even
		// when the worker has already given up on the decision
		decisions: make(chan resolve.Policy, 1),
		cancel:    cancel,
	}
}

// StartImportCmd runs the import batch in its own goroutine-backed command.
// Progress and decision requests arrive via AwaitImportEventCmd; the final
// ImportDoneMsg is this command's own return value.
func StartImportCmd(ctx context.Context, svc *service.PlaylistService, doc *exportfile.Document, opts service.ImportOptions, session *importSession) tea.Cmd {
	return func() tea.Msg {
		defer close(session.events)

		hooks := service.ImportHooks{
			OnPlaylistStart: func(name string, index, total int) {
				session.push(ImportProgressMsg{
					Name:          name,
					PlaylistIndex: index,
					PlaylistTotal: total,
				})
			},
			OnItemProgress: func(name string, done, total int) {
				session.push(ImportProgressMsg{
					Name:      name,
					ItemDone:  done,
					ItemTotal: total,
				})
			},
			Decide: func(name string) resolve.Policy {
				// Blocking send: the worker must wait on the user here
				session.events <- DecisionRequestMsg{Name: name}
				select {
				case policy := <-session.decisions:
					return policy
				case <-ctx.Done():
					return resolve.PolicySkip
				}
			},
		}

		results, err := svc.Import(ctx, doc, opts, hooks)
		return ImportDoneMsg{Results: results, Err: err}
	}
}

// push delivers a progress event without blocking the worker
func (s *importSession) push(msg tea.Msg) {
	select {
	case s.events <- msg:
	default: // Drop progress updates if the UI is behind
	}
}

// AwaitImportEventCmd waits for the next progress or decision event.
// Re-armed by the update loop after each event until the channel closes.
func AwaitImportEventCmd(session *importSession) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-session.events
		if !ok {
			return nil
		}
		return msg
	}
}

// ModifyCmd sorts one playlist by (year, title) and writes the order back
func ModifyCmd(svc *service.PlaylistService, playlist *domain.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		changed, err := svc.SortByYear(ctx, playlist)
		return ModifyDoneMsg{Name: playlist.Title, Changed: changed, Err: err}
	}
}

// RenameCmd renames one playlist on the server
func RenameCmd(svc *service.PlaylistService, playlist *domain.Playlist, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Rename(ctx, playlist, title)
		return RenameDoneMsg{Old: playlist.Title, New: title, Err: err}
	}
}

// DeleteCmd deletes the given playlists from the server
func DeleteCmd(svc *service.PlaylistService, playlists []*domain.Playlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		results, err := svc.Delete(ctx, playlists)
		return DeleteDoneMsg{Results: results, Err: err}
	}
}
