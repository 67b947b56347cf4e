// Package tui implements the terminal interface: a four-tab application
// over the playlist service with async commands for every server operation.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeffparker/plexport/internal/config"
	"github.com/jeffparker/plexport/internal/domain"
	"github.com/jeffparker/plexport/internal/exportfile"
	"github.com/jeffparker/plexport/internal/resolve"
	"github.com/jeffparker/plexport/internal/service"
	"github.com/jeffparker/plexport/internal/tui/components"
	"github.com/jeffparker/plexport/internal/tui/styles"
)

// Tab identifiers
const (
	tabExport = iota
	tabImport
	tabModify
	tabDelete
	tabCount
)

var tabNames = [tabCount]string{"Export", "Import", "Modify", "Delete"}

// inputPurpose selects what a submitted input modal value means
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputExportPath
	inputCSVPath
	inputImportPath
	inputImportRename
	inputPlaylistRename
)

// Model is the root Bubble Tea model
type Model struct {
	svc    *service.PlaylistService
	cfg    *config.Config
	logger *slog.Logger

	keys    KeyMap
	width   int
	height  int
	spinner spinner.Model

	activeTab int
	lists     [tabCount]components.Checklist

	inputModal    components.InputModal
	inputFor      inputPurpose
	decisionModal components.DecisionModal

	playlists  []*domain.Playlist
	byTitle    map[string]*domain.Playlist
	doc        *exportfile.Document
	docPath    string
	renames    map[string]string
	renameFrom string

	session *importSession
	busy    bool

	confirmDelete bool
	progress      string
	results       []string
	status        string
	statusErr     bool
}

// NewModel creates the root model
func NewModel(svc *service.PlaylistService, cfg *config.Config, logger *slog.Logger) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	lists := [tabCount]components.Checklist{
		tabExport: components.NewChecklist(false),
		tabImport: components.NewChecklist(false),
		tabModify: components.NewChecklist(true),
		tabDelete: components.NewChecklist(false),
	}

	return Model{
		svc:     svc,
		cfg:     cfg,
		logger:  logger,
		keys:    DefaultKeyMap(),
		spinner: sp,
		lists:   lists,
		byTitle: make(map[string]*domain.Playlist),
		renames: make(map[string]string),

		inputModal:    components.NewInputModal(),
		decisionModal: components.NewDecisionModal(),
		busy:          true, // Until the initial playlist load lands
	}
}

// Init starts the initial playlist load
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, LoadPlaylistsCmd(m.svc, false))
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case PlaylistsLoadedMsg:
		return m.onPlaylistsLoaded(msg), nil

	case ExportDoneMsg:
		m.busy = false
		m.setStatus(fmt.Sprintf("Exported %d playlists to %s", msg.Count, msg.Path), false)
		return m, nil

	case CSVExportDoneMsg:
		m.busy = false
		m.setStatus(fmt.Sprintf("Exported %q to %s", msg.Name, msg.Path), false)
		return m, nil

	case DocumentLoadedMsg:
		return m.onDocumentLoaded(msg), nil

	case ImportProgressMsg:
		if msg.ItemTotal > 0 {
			m.progress = fmt.Sprintf("%s: %d/%d items", msg.Name, msg.ItemDone, msg.ItemTotal)
		} else {
			m.progress = fmt.Sprintf("Importing %s (%d/%d)", msg.Name, msg.PlaylistIndex+1, msg.PlaylistTotal)
		}
		return m, AwaitImportEventCmd(m.session)

	case DecisionRequestMsg:
		m.decisionModal.Show(msg.Name)
		return m, AwaitImportEventCmd(m.session)

	case ImportDoneMsg:
		return m.onImportDone(msg)

	case ModifyDoneMsg:
		m.busy = false
		switch {
		case msg.Err != nil:
			m.setStatus(fmt.Sprintf("Sort failed for %q: %v", msg.Name, msg.Err), true)
		case msg.Changed:
			m.setStatus(fmt.Sprintf("Sorted %q by year, then title", msg.Name), false)
		default:
			m.setStatus(fmt.Sprintf("%q is already in order", msg.Name), false)
		}
		return m, nil

	case RenameDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Rename failed: %v", msg.Err), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Renamed %q to %q", msg.Old, msg.New), false)
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, LoadPlaylistsCmd(m.svc, true))

	case DeleteDoneMsg:
		return m.onDeleteDone(msg)

	case ErrMsg:
		m.busy = false
		m.progress = ""
		m.setStatus(msg.Error(), true)
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.IsErr)
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) onPlaylistsLoaded(msg PlaylistsLoadedMsg) Model {
	m.busy = false
	m.playlists = msg.Playlists
	m.byTitle = make(map[string]*domain.Playlist, len(msg.Playlists))

	items := make([]components.ChecklistItem, 0, len(msg.Playlists))
	for _, p := range msg.Playlists {
		m.byTitle[p.Title] = p
		items = append(items, components.ChecklistItem{
			ID:    p.ID,
			Title: p.Title,
			Desc:  p.Description(),
		})
	}

	for _, tab := range []int{tabExport, tabModify, tabDelete} {
		m.lists[tab].SetItems(items)
	}
	m.setStatus(fmt.Sprintf("%d playlists on server", len(msg.Playlists)), false)
	return m
}

func (m Model) onDocumentLoaded(msg DocumentLoadedMsg) Model {
	m.busy = false
	m.doc = msg.Doc
	m.docPath = msg.Path
	m.renames = make(map[string]string)
	m.results = nil

	items := make([]components.ChecklistItem, 0, len(msg.Doc.Playlists))
	for _, p := range msg.Doc.Playlists {
		items = append(items, components.ChecklistItem{
			ID:      p.Name,
			Title:   p.Name,
			Desc:    fmt.Sprintf("%d items", len(p.Items)),
			Checked: true,
		})
	}
	m.lists[tabImport].SetItems(items)

	label := msg.Path
	if msg.Doc.Server != "" {
		label = fmt.Sprintf("%s (exported from %s)", msg.Path, msg.Doc.Server)
	}
	m.setStatus("Loaded "+label, false)
	return m
}

func (m Model) onImportDone(msg ImportDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.progress = ""
	m.session = nil
	m.decisionModal.Hide()

	m.results = make([]string, 0, len(msg.Results))
	for _, r := range msg.Results {
		m.results = append(m.results, r.Summary())
	}
	if msg.Err != nil {
		m.setStatus("Import stopped: "+msg.Err.Error(), true)
	} else {
		m.setStatus(fmt.Sprintf("Import finished: %d playlists processed", len(msg.Results)), false)
	}

	m.busy = true
	return m, tea.Batch(m.spinner.Tick, LoadPlaylistsCmd(m.svc, true))
}

func (m Model) onDeleteDone(msg DeleteDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.results = make([]string, 0, len(msg.Results))
	deleted := 0
	for _, r := range msg.Results {
		if r.Err != nil {
			m.results = append(m.results, fmt.Sprintf("%s: %v", r.Playlist.Title, r.Err))
			continue
		}
		m.results = append(m.results, r.Playlist.Title+": deleted")
		deleted++
	}
	if msg.Err != nil {
		m.setStatus("Delete stopped: "+msg.Err.Error(), true)
	} else {
		m.setStatus(fmt.Sprintf("Deleted %d playlists", deleted), false)
	}

	m.busy = true
	return m, tea.Batch(m.spinner.Tick, LoadPlaylistsCmd(m.svc, true))
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modals take priority over everything else
	if m.decisionModal.IsVisible() {
		modal, policy, decided := m.decisionModal.Update(msg)
		m.decisionModal = modal
		if decided && m.session != nil {
			m.session.decisions <- policy
		}
		return m, nil
	}

	if m.inputModal.IsVisible() {
		modal, cmd, submitted := m.inputModal.Update(msg)
		value := modal.Value()
		m.inputModal = modal
		if submitted {
			return m.onInputSubmitted(value)
		}
		return m, cmd
	}

	list := &m.lists[m.activeTab]
	if list.Filtering() {
		list.FilterKey(msg.String())
		return m, nil
	}

	// Any key other than enter drops a pending delete confirmation
	if m.confirmDelete && !key.Matches(msg, m.keys.Run) {
		m.confirmDelete = false
		m.setStatus("Delete cancelled", false)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.busy && m.session != nil {
			m.session.cancel()
			m.setStatus("Cancelling after current playlist...", false)
			return m, nil
		}
		m.results = nil
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		m.results = nil
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		m.results = nil
		return m, nil

	case key.Matches(msg, m.keys.Up):
		list.CursorUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		list.CursorDown()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		list.Toggle()
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		all := len(list.Selected()) < len(list.Items())
		list.SetAll(all)
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		list.StartFilter()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, LoadPlaylistsCmd(m.svc, true))

	case key.Matches(msg, m.keys.Run):
		return m.onRun()

	case key.Matches(msg, m.keys.CSV):
		return m.onCSV()

	case key.Matches(msg, m.keys.Rename):
		return m.onRename()

	case key.Matches(msg, m.keys.Browse):
		if m.activeTab == tabImport && !m.busy {
			m.inputFor = inputImportPath
			m.inputModal.Show("Import file (.json or .csv)", m.cfg.Export.Dir+string(filepath.Separator))
		}
		return m, nil
	}

	return m, nil
}

// onRun dispatches the enter key per tab
func (m Model) onRun() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch m.activeTab {
	case tabExport:
		if len(m.lists[tabExport].Selected()) == 0 {
			m.setStatus("Nothing selected", true)
			return m, nil
		}
		m.inputFor = inputExportPath
		m.inputModal.Show("Export to", m.defaultExportPath())
		return m, nil

	case tabImport:
		return m.startImport()

	case tabModify:
		current := m.checkedPlaylists(tabModify)
		if len(current) == 0 {
			m.setStatus("Select a playlist first (space)", true)
			return m, nil
		}
		if current[0].Smart {
			m.setStatus(fmt.Sprintf("%q is a smart playlist and cannot be reordered", current[0].Title), true)
			return m, nil
		}
		m.busy = true
		m.setStatus(fmt.Sprintf("Sorting %q...", current[0].Title), false)
		return m, tea.Batch(m.spinner.Tick, ModifyCmd(m.svc, current[0]))

	case tabDelete:
		selected := m.checkedPlaylists(tabDelete)
		if len(selected) == 0 {
			m.setStatus("Nothing selected", true)
			return m, nil
		}
		if !m.confirmDelete {
			m.confirmDelete = true
			m.setStatus(fmt.Sprintf("Delete %d playlists? Press enter again to confirm", len(selected)), true)
			return m, nil
		}
		m.confirmDelete = false
		m.busy = true
		m.results = nil
		m.setStatus("Deleting...", false)
		return m, tea.Batch(m.spinner.Tick, DeleteCmd(m.svc, selected))
	}

	return m, nil
}

func (m Model) onCSV() (tea.Model, tea.Cmd) {
	if m.activeTab != tabExport || m.busy {
		return m, nil
	}
	current := m.lists[tabExport].Current()
	if current == nil {
		return m, nil
	}
	m.inputFor = inputCSVPath
	m.inputModal.Show("Export "+current.Title+" to CSV",
		filepath.Join(m.cfg.Export.Dir, sanitizeFilename(current.Title)+".csv"))
	return m, nil
}

func (m Model) onRename() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch m.activeTab {
	case tabImport:
		current := m.lists[tabImport].Current()
		if current == nil {
			return m, nil
		}
		m.renameFrom = current.ID
		target := m.renames[current.ID]
		if target == "" {
			target = current.ID
		}
		m.inputFor = inputImportRename
		m.inputModal.Show("Import as", target)

	case tabModify:
		current := m.lists[tabModify].Current()
		if current == nil {
			return m, nil
		}
		m.renameFrom = current.Title
		m.inputFor = inputPlaylistRename
		m.inputModal.Show("Rename playlist", current.Title)
	}
	return m, nil
}

func (m Model) onInputSubmitted(value string) (tea.Model, tea.Cmd) {
	purpose := m.inputFor
	m.inputFor = inputNone
	if value == "" {
		return m, nil
	}

	switch purpose {
	case inputExportPath:
		selected := m.checkedPlaylists(tabExport)
		m.busy = true
		m.setStatus(fmt.Sprintf("Exporting %d playlists...", len(selected)), false)
		return m, tea.Batch(m.spinner.Tick, ExportCmd(m.svc, selected, value))

	case inputCSVPath:
		current := m.lists[tabExport].Current()
		if current == nil {
			return m, nil
		}
		playlist := m.byTitle[current.Title]
		if playlist == nil {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, ExportCSVCmd(m.svc, playlist, value))

	case inputImportPath:
		m.busy = true
		m.setStatus("Loading "+value, false)
		return m, tea.Batch(m.spinner.Tick, LoadDocumentCmd(m.svc, value))

	case inputImportRename:
		list := &m.lists[tabImport]
		if value == m.renameFrom {
			delete(m.renames, m.renameFrom)
		} else {
			m.renames[m.renameFrom] = value
		}
		items := list.Items()
		for i := range items {
			if items[i].ID != m.renameFrom {
				continue
			}
			if target, ok := m.renames[m.renameFrom]; ok {
				items[i].Desc = "→ " + target
			} else if m.doc != nil {
				for _, p := range m.doc.Playlists {
					if p.Name == m.renameFrom {
						items[i].Desc = fmt.Sprintf("%d items", len(p.Items))
					}
				}
			}
		}
		return m, nil

	case inputPlaylistRename:
		playlist := m.byTitle[m.renameFrom]
		if playlist == nil || value == m.renameFrom {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, RenameCmd(m.svc, playlist, value))
	}

	return m, nil
}

// startImport spins up the worker goroutine and the event pump
func (m Model) startImport() (tea.Model, tea.Cmd) {
	if m.doc == nil {
		m.setStatus("No import file loaded (press o)", true)
		return m, nil
	}

	selected := m.lists[tabImport].Selected()
	if len(selected) == 0 {
		m.setStatus("Nothing selected", true)
		return m, nil
	}

	names := make(map[string]bool, len(selected))
	for _, item := range selected {
		names[item.ID] = true
	}

	opts := service.ImportOptions{
		Policy:            policyFromConfig(m.cfg.Import.Policy),
		Renames:           m.renames,
		Selected:          names,
		MissingReportPath: missingReportPath(m.docPath),
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.session = newImportSession(cancel)
	m.busy = true
	m.results = nil
	m.progress = "Starting import..."
	m.setStatus("", false)

	return m, tea.Batch(
		m.spinner.Tick,
		StartImportCmd(ctx, m.svc, m.doc, opts, m.session),
		AwaitImportEventCmd(m.session),
	)
}

// checkedPlaylists resolves a tab's checked rows to server playlists
func (m Model) checkedPlaylists(tab int) []*domain.Playlist {
	selected := m.lists[tab].Selected()
	playlists := make([]*domain.Playlist, 0, len(selected))
	for _, item := range selected {
		if p, ok := m.byTitle[item.Title]; ok {
			playlists = append(playlists, p)
		}
	}
	return playlists
}

func (m Model) defaultExportPath() string {
	name := fmt.Sprintf("playlists-%s.json", time.Now().Format("2006-01-02"))
	return filepath.Join(m.cfg.Export.Dir, name)
}

// policyFromConfig maps the configured default to a resolver policy
func policyFromConfig(p config.ImportPolicy) resolve.Policy {
	switch p {
	case config.ImportPolicyRename:
		return resolve.PolicyRename
	case config.ImportPolicyOverwrite:
		return resolve.PolicyOverwrite
	case config.ImportPolicySkip:
		return resolve.PolicySkip
	default:
		return resolve.PolicyAsk
	}
}

// missingReportPath derives the unmatched-items report path from the
// import file path
func missingReportPath(docPath string) string {
	ext := filepath.Ext(docPath)
	return docPath[:len(docPath)-len(ext)] + ".missing.json"
}

// sanitizeFilename strips characters that are unsafe in file names
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
