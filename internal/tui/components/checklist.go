package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/jeffparker/plexport/internal/tui/styles"
)

// ChecklistItem is one selectable row
type ChecklistItem struct {
	ID      string
	Title   string
	Desc    string // Secondary text shown right-aligned
	Checked bool
}

// checklistSource implements fuzzy.Source over item titles
type checklistSource []ChecklistItem

func (s checklistSource) String(i int) string { return s[i].Title }
func (s checklistSource) Len() int            { return len(s) }

// Checklist is a scrollable multi- or single-select list with fuzzy
// filtering. In single mode it behaves as a radio group.
type Checklist struct {
	items  []ChecklistItem
	single bool

	cursor  int
	offset  int // Scroll offset
	visible []int // Indexes into items surviving the filter

	filtering bool
	filter    string
}

// NewChecklist creates a checklist. single selects radio-group behavior.
func NewChecklist(single bool) Checklist {
	return Checklist{single: single}
}

// SetItems replaces the list contents and resets cursor and filter
func (c *Checklist) SetItems(items []ChecklistItem) {
	c.items = items
	c.cursor = 0
	c.offset = 0
	c.filter = ""
	c.filtering = false
	c.refilter()
}

// Items returns all items regardless of filter
func (c *Checklist) Items() []ChecklistItem {
	return c.items
}

// Len returns the number of items surviving the filter
func (c *Checklist) Len() int {
	return len(c.visible)
}

// refilter recomputes the visible index list from the filter string
func (c *Checklist) refilter() {
	if c.filter == "" {
		c.visible = make([]int, len(c.items))
		for i := range c.items {
			c.visible[i] = i
		}
	} else {
		matches := fuzzy.FindFrom(c.filter, checklistSource(c.items))
		c.visible = make([]int, len(matches))
		for i, m := range matches {
			c.visible[i] = m.Index
		}
	}

	if c.cursor >= len(c.visible) {
		c.cursor = max(0, len(c.visible)-1)
	}
}

// CursorUp moves the cursor up one row
func (c *Checklist) CursorUp() {
	if c.cursor > 0 {
		c.cursor--
	}
}

// CursorDown moves the cursor down one row
func (c *Checklist) CursorDown() {
	if c.cursor < len(c.visible)-1 {
		c.cursor++
	}
}

// Current returns the item under the cursor, or nil when the list is empty
func (c *Checklist) Current() *ChecklistItem {
	if len(c.visible) == 0 {
		return nil
	}
	return &c.items[c.visible[c.cursor]]
}

// Toggle flips the checked state of the item under the cursor. In single
// mode every other item is unchecked first.
func (c *Checklist) Toggle() {
	current := c.Current()
	if current == nil {
		return
	}
	if c.single {
		for i := range c.items {
			c.items[i].Checked = false
		}
		current.Checked = true
		return
	}
	current.Checked = !current.Checked
}

// SetAll checks or unchecks every item (no-op in single mode)
func (c *Checklist) SetAll(checked bool) {
	if c.single {
		return
	}
	for i := range c.items {
		c.items[i].Checked = checked
	}
}

// Selected returns the checked items in list order
func (c *Checklist) Selected() []ChecklistItem {
	var selected []ChecklistItem
	for _, item := range c.items {
		if item.Checked {
			selected = append(selected, item)
		}
	}
	return selected
}

// StartFilter enters filtering mode
func (c *Checklist) StartFilter() {
	c.filtering = true
}

// Filtering reports whether the list is accepting filter keystrokes
func (c *Checklist) Filtering() bool {
	return c.filtering
}

// FilterKey applies one keystroke to the filter string. Enter confirms,
// Esc clears.
func (c *Checklist) FilterKey(key string) {
	switch key {
	case "enter":
		c.filtering = false
	case "esc":
		c.filtering = false
		c.filter = ""
		c.refilter()
	case "backspace":
		if len(c.filter) > 0 {
			c.filter = c.filter[:len(c.filter)-1]
			c.refilter()
		}
	default:
		if len(key) == 1 {
			c.filter += key
			c.refilter()
		}
	}
}

// View renders the checklist within the given box
func (c *Checklist) View(width, height int) string {
	if height < 1 {
		return ""
	}

	var b strings.Builder

	rows := height
	if c.filter != "" || c.filtering {
		rows--
		prompt := "/" + c.filter
		if c.filtering {
			prompt += "▌"
		}
		b.WriteString(styles.AccentStyle.Render(prompt))
		b.WriteString("\n")
	}

	if len(c.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("  nothing here"))
		return b.String()
	}

	// Keep cursor in view
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+rows {
		c.offset = c.cursor - rows + 1
	}

	end := min(c.offset+rows, len(c.visible))
	for row := c.offset; row < end; row++ {
		item := c.items[c.visible[row]]

		mark := styles.UncheckedChar
		switch {
		case c.single && item.Checked:
			mark = styles.RadioOnChar
		case c.single:
			mark = styles.RadioOffChar
		case item.Checked:
			mark = styles.CheckedChar
		}

		line := fmt.Sprintf("%s %s", mark, item.Title)
		if item.Desc != "" {
			line = fmt.Sprintf("%s  %s", line, styles.DimStyle.Render(item.Desc))
		}

		if row == c.cursor {
			line = styles.HighlightStyle.Render(fmt.Sprintf("%s %s", mark, item.Title))
			if item.Desc != "" {
				line += "  " + styles.DimStyle.Render(item.Desc)
			}
		}

		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(line))
		if row < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
