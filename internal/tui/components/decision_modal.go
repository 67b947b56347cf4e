package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeffparker/plexport/internal/resolve"
	"github.com/jeffparker/plexport/internal/tui/styles"
)

// DecisionModal asks how to handle a playlist name collision during import.
// It blocks only the playlist being imported; the worker goroutine waits on
// the answer while the rest of the UI stays live.
type DecisionModal struct {
	visible bool
	name    string
}

// NewDecisionModal creates a decision modal
func NewDecisionModal() DecisionModal {
	return DecisionModal{}
}

// Show displays the modal for a conflicted playlist name
func (m *DecisionModal) Show(name string) {
	m.visible = true
	m.name = name
}

// Hide dismisses the modal
func (m *DecisionModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m DecisionModal) IsVisible() bool {
	return m.visible
}

// Name returns the conflicted playlist name being decided
func (m DecisionModal) Name() string {
	return m.name
}

// Update handles key events, returning (modal, policy, decided)
func (m DecisionModal) Update(msg tea.Msg) (DecisionModal, resolve.Policy, bool) {
	if !m.visible {
		return m, resolve.PolicyAsk, false
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, resolve.PolicyAsk, false
	}

	switch key.String() {
	case "o":
		m.Hide()
		return m, resolve.PolicyOverwrite, true
	case "r":
		m.Hide()
		return m, resolve.PolicyRename, true
	case "s", "esc":
		m.Hide()
		return m, resolve.PolicySkip, true
	}

	return m, resolve.PolicyAsk, false
}

// View renders the modal
func (m DecisionModal) View() string {
	if !m.visible {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Playlist already exists"),
		"",
		fmt.Sprintf("A playlist named %s exists on this server.", styles.AccentStyle.Render(fmt.Sprintf("%q", m.name))),
		"",
		styles.DimStyle.Render("[o] overwrite contents · [r] rename import · [s] skip"),
	)
	return styles.ModalStyle.Render(content)
}
