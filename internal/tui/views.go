package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeffparker/plexport/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.headerView()
	tabs := m.tabBarView()
	footer := m.footerView()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(tabs) - lipgloss.Height(footer) - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := m.bodyView(bodyHeight)

	if modal := m.modalView(); modal != "" {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, modal)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, "", body, "", footer)
}

func (m Model) headerView() string {
	title := styles.AccentStyle.Bold(true).Render("plexport")
	server := ""
	if m.cfg.Server.Name != "" {
		server = styles.DimStyle.Render("  " + m.cfg.Server.Name)
	}
	return title + server
}

func (m Model) tabBarView() string {
	var tabs []string
	for i, name := range tabNames {
		if i == m.activeTab {
			tabs = append(tabs, styles.ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) bodyView(height int) string {
	if m.busy && m.progress != "" {
		return m.spinner.View() + " " + m.progress
	}

	if len(m.results) > 0 {
		return m.resultsView(height)
	}

	switch m.activeTab {
	case tabImport:
		if m.doc == nil {
			return styles.DimStyle.Render("No import file loaded. Press o to open a .json or .csv export.")
		}
	default:
		if len(m.playlists) == 0 && !m.busy {
			return styles.DimStyle.Render("No playlists on this server.")
		}
	}

	if m.busy {
		return m.spinner.View() + " " + styles.DimStyle.Render("working...")
	}

	return m.lists[m.activeTab].View(m.width, height)
}

func (m Model) resultsView(height int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Results"))
	b.WriteString("\n\n")

	shown := m.results
	if rows := max(height-3, 1); len(shown) > rows {
		shown = shown[:rows]
	}
	for _, line := range shown {
		b.WriteString("  " + line + "\n")
	}
	if len(m.results) > len(shown) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ...and %d more", len(m.results)-len(shown))))
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("esc dismiss"))
	return b.String()
}

func (m Model) modalView() string {
	if m.decisionModal.IsVisible() {
		return m.decisionModal.View()
	}
	if m.inputModal.IsVisible() {
		return m.inputModal.View()
	}
	return ""
}

func (m Model) footerView() string {
	status := m.status
	if status != "" {
		if m.statusErr {
			status = styles.ErrorStyle.Render(status)
		} else {
			status = styles.SubtitleStyle.Render(status)
		}
	}

	help := styles.DimStyle.Render(m.helpLine())
	if status == "" {
		return help
	}
	return status + "\n" + help
}

// helpLine shows the bindings relevant to the active tab
func (m Model) helpLine() string {
	common := "tab switch · j/k move · space toggle · a all · / filter · r refresh · q quit"
	switch m.activeTab {
	case tabExport:
		return "enter export · c export CSV · " + common
	case tabImport:
		return "o open file · enter import · n rename · esc cancel · " + common
	case tabModify:
		return "enter sort by year · n rename · " + common
	case tabDelete:
		return "enter delete · " + common
	}
	return common
}
