package tui

import (
	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
	"github.com/jeffparker/plexport/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PlaylistsLoadedMsg signals that server playlists have been loaded
type PlaylistsLoadedMsg struct {
	Playlists []*domain.Playlist
}

// ExportDoneMsg signals that an export completed
type ExportDoneMsg struct {
	Path  string
	Count int
}

// CSVExportDoneMsg signals that a single-playlist CSV export completed
type CSVExportDoneMsg struct {
	Path string
	Name string
}

// DocumentLoadedMsg signals that an import file was decoded
type DocumentLoadedMsg struct {
	Doc  *exportfile.Document
	Path string
}

// ImportProgressMsg reports per-item matching progress during an import
type ImportProgressMsg struct {
	Name          string // Playlist being processed
	PlaylistIndex int
	PlaylistTotal int
	ItemDone      int
	ItemTotal     int
}

// DecisionRequestMsg signals that the import worker is blocked on a name
// collision and needs a policy for one playlist
type DecisionRequestMsg struct {
	Name string
}

// ImportDoneMsg signals that an import batch finished
type ImportDoneMsg struct {
	Results []service.ImportResult
	Err     error
}

// ModifyDoneMsg signals that a sort-by-year operation finished
type ModifyDoneMsg struct {
	Name    string
	Changed bool
	Err     error
}

// RenameDoneMsg signals that a playlist rename finished
type RenameDoneMsg struct {
	Old string
	New string
	Err error
}

// DeleteDoneMsg signals that a delete batch finished
type DeleteDoneMsg struct {
	Results []service.DeleteResult
	Err     error
}

// StatusMsg sets a transient footer status line
type StatusMsg struct {
	Text  string
	IsErr bool
}
