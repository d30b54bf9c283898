package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/columns"
)

const (
	tableTimeLayout = "2006-01-02 15:04:05.000"
	maxCellRunes    = 256
)

// tableKeys lists the column keys shown, base columns first.
func tableKeys(visible []string) []string {
	keys := make([]string, 0, len(columns.Base)+len(visible))
	for _, c := range columns.Base {
		keys = append(keys, c.Key)
	}
	return append(keys, visible...)
}

// buildColumns returns table columns for keys. The message column absorbs
// spare width.
func buildColumns(keys []string, width int) []table.Column {
	cols := make([]table.Column, len(keys))
	used := 0
	msg := -1
	for i, k := range keys {
		cols[i] = table.Column{Title: columns.Label(k), Width: columns.Width(k)}
		used += cols[i].Width + 2 // cell padding
		if k == "msg" {
			msg = i
		}
	}
	if msg >= 0 && width > used {
		cols[msg].Width += width - used
	}
	return cols
}

// buildRows renders catalog rows into table cells.
func buildRows(cat *catalog.Catalog, idxs []int, keys []string) []table.Row {
	rows := make([]table.Row, 0, len(idxs))
	for _, idx := range idxs {
		rows = append(rows, buildRow(&cat.Rows[idx], keys))
	}
	return rows
}

func buildRow(row *catalog.Row, keys []string) table.Row {
	cells := make(table.Row, len(keys))
	for i, k := range keys {
		var v string
		if k == "time" {
			if row.HasTime() {
				v = row.Time.Format(tableTimeLayout)
			}
		} else {
			v = oneLine(row.Value(k))
		}
		cells[i] = truncate(v, maxCellRunes)
	}
	return cells
}

// tableStyles returns bubbles table styles for the theme.
func (m Model) tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(lipgloss.Color(m.theme.Accent)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	s.Selected = m.theme.Styles().Selected
	return s
}

// tableHeight is the number of body rows that fit above the footer.
func (m Model) tableHeight() int {
	// header, filter bar, pane border, table header, footer + hints
	h := m.height - 1 - 1 - 2 - 2 - 2
	if m.showDetail {
		h -= m.detailHeight()
	}
	return max(3, h)
}

// refresh rebuilds the table and detail pane from the engine.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	keys := tableKeys(m.engine.VisibleColumns())
	cols := buildColumns(keys, m.width-2)
	rows := buildRows(m.engine.Catalog(), m.engine.PageRows(), keys)

	// Rows must never be wider than the columns during the swap.
	m.table.SetRows(nil)
	m.table.SetStyles(m.tableStyles())
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetWidth(m.width - 2)
	m.table.SetHeight(m.tableHeight())

	if sel := m.engine.Selection(); sel >= 0 {
		m.table.SetCursor(sel - m.engine.Page()*m.engine.PageSize())
	} else {
		m.table.SetCursor(0)
	}
	m.refreshDetail()
}

// handleTableKey moves the selection through the filtered rows.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.engine.Filtered())
	if total == 0 {
		return m, nil
	}
	pageStart := m.engine.Page() * m.engine.PageSize()
	sel := m.engine.Selection()
	if sel < 0 {
		sel = pageStart - 1
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.engine.Select(min(sel+1, total-1))
	case key.Matches(msg, m.keys.Up):
		m.engine.Select(max(sel-1, 0))
	case key.Matches(msg, m.keys.Top):
		m.engine.Select(0)
	case key.Matches(msg, m.keys.Bottom):
		m.engine.Select(total - 1)
	case key.Matches(msg, m.keys.PageDown):
		m.engine.SetPage(m.engine.Page() + 1)
	case key.Matches(msg, m.keys.PageUp):
		m.engine.SetPage(m.engine.Page() - 1)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

// renderTable renders the table inside a bordered pane.
func (m Model) renderTable() string {
	styles := m.theme.Styles()
	pane := styles.FocusedPane
	if m.focus != focusTable {
		pane = styles.Pane
	}
	if len(m.engine.Filtered()) == 0 {
		empty := styles.MutedText.Render(m.emptyMessage())
		return pane.Width(m.width - 2).Height(m.tableHeight() + 2).Render(empty)
	}
	return pane.Width(m.width - 2).Render(m.table.View())
}

func (m Model) emptyMessage() string {
	switch {
	case m.engine.Indexing():
		return "Indexing..."
	case m.engine.Catalog().Len() == 0:
		return "No log records found"
	default:
		return "No rows match the current filters"
	}
}
