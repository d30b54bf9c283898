package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smooai/log-viewer/internal/columns"
)

func (m *Model) initColumnInput() {
	ti := textinput.New()
	ti.Placeholder = "column name"
	ti.CharLimit = 128
	ti.Width = 40
	m.columnInput = ti
}

// openColumnPicker focuses the column input in add or remove mode.
func (m *Model) openColumnPicker(remove bool) tea.Cmd {
	if remove && len(m.engine.VisibleColumns()) == 0 {
		m.flash = "No extra columns to remove"
		return nil
	}
	m.columnRemove = remove
	m.columnInput.SetValue("")
	m.focus = focusColumns
	return m.columnInput.Focus()
}

// columnSuggestions lists candidates for the current input.
func (m Model) columnSuggestions() []string {
	query := m.columnInput.Value()
	if !m.columnRemove {
		return m.engine.Suggestions(query)
	}
	lowered := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, name := range m.engine.VisibleColumns() {
		if lowered == "" || strings.Contains(strings.ToLower(name), lowered) {
			out = append(out, name)
		}
	}
	return out
}

// handleColumnKey edits the column picker.
func (m Model) handleColumnKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeColumnPicker()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		if s := m.columnSuggestions(); len(s) > 0 {
			m.columnInput.SetValue(s[0])
			m.columnInput.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.columnRemove {
			m.confirmRemoveColumn()
		} else {
			m.confirmAddColumn()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.columnInput, cmd = m.columnInput.Update(msg)
	return m, cmd
}

func (m *Model) confirmAddColumn() {
	res := m.engine.AddColumn(m.columnInput.Value())
	if res.Status == columns.NotFound {
		// Stay open so the name can be corrected.
		return
	}
	if res.Status == columns.Added {
		m.savePrefs()
	}
	m.closeColumnPicker()
}

func (m *Model) confirmRemoveColumn() {
	name, ok := columns.Resolve(m.columnInput.Value(), m.engine.VisibleColumns())
	if !ok {
		m.flash = "No visible column matches " + m.columnInput.Value()
		return
	}
	m.engine.RemoveColumn(name)
	m.flash = "Removed column " + name
	m.savePrefs()
	m.closeColumnPicker()
}

func (m *Model) closeColumnPicker() {
	m.columnInput.Blur()
	m.focus = focusTable
	m.refresh()
}

// renderColumnPicker renders the picker as a centered modal.
func (m Model) renderColumnPicker() string {
	styles := m.theme.Styles()

	title := "Add column"
	if m.columnRemove {
		title = "Remove column"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.columnInput.View())
	b.WriteString("\n\n")

	suggestions := m.columnSuggestions()
	if len(suggestions) == 0 {
		b.WriteString(styles.MutedText.Render("No matching columns"))
	}
	for i, s := range suggestions {
		style := styles.MutedText
		if i == 0 {
			style = styles.AccentText
		}
		b.WriteString(style.Render("  " + s))
		b.WriteString("\n")
	}
	if m.flash != "" || m.engine.Status() != "" {
		b.WriteString("\n")
		status := m.flash
		if status == "" {
			status = m.engine.Status()
		}
		b.WriteString(styles.FaintText.Render(truncate(status, 44)))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(50)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// copyCmd writes text to the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}
