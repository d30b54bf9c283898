package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smooai/log-viewer/internal/filter"
)

// Filter bar fields, in tab order.
const (
	filterText = iota
	filterLevel
	filterCorrelation
	filterService
	filterNamespace
	filterTrace
	filterRequest
	filterFieldCount
)

var filterLabels = [filterFieldCount]string{
	"text", "level", "corr", "service", "ns", "trace", "req",
}

var filterWidths = [filterFieldCount]int{24, 8, 14, 12, 12, 14, 14}

func (m *Model) initFilterInputs() {
	f := m.engine.Filters()
	values := [filterFieldCount]string{
		f.Text, f.Level, f.Correlation, f.Service, f.Namespace, f.Trace, f.Request,
	}
	for i := range m.filterInputs {
		ti := textinput.New()
		ti.Prompt = filterLabels[i] + ":"
		ti.CharLimit = 256
		ti.Width = filterWidths[i]
		ti.SetValue(values[i])
		m.filterInputs[i] = ti
	}
}

// filtersFromInputs builds the filter set from the input values.
func filtersFromInputs(inputs [filterFieldCount]textinput.Model, regex bool) filter.Filters {
	return filter.Filters{
		Text:        inputs[filterText].Value(),
		Level:       inputs[filterLevel].Value(),
		Correlation: inputs[filterCorrelation].Value(),
		Service:     inputs[filterService].Value(),
		Namespace:   inputs[filterNamespace].Value(),
		Trace:       inputs[filterTrace].Value(),
		Request:     inputs[filterRequest].Value(),
		Regex:       regex,
	}
}

// applyFilters pushes the inputs to the engine when they changed.
func (m *Model) applyFilters() {
	f := filtersFromInputs(m.filterInputs, m.prefs.RegexMode)
	if f == m.engine.Filters() {
		return
	}
	m.engine.SetFilters(f)
	m.refresh()
}

// handleFilterKey edits the filter bar. Filters apply as the user types.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm):
		m.filterInputs[m.filterFocus].Blur()
		m.focus = focusTable
		m.applyFilters()
		return m, nil

	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.filterInputs[m.filterFocus].Blur()
		step := 1
		if key.Matches(msg, m.keys.PrevField) {
			step = filterFieldCount - 1
		}
		m.filterFocus = (m.filterFocus + step) % filterFieldCount
		return m, m.filterInputs[m.filterFocus].Focus()
	}

	var cmd tea.Cmd
	m.filterInputs[m.filterFocus], cmd = m.filterInputs[m.filterFocus].Update(msg)
	m.applyFilters()
	return m, cmd
}

// renderFilterBar renders the filter inputs on one line.
func (m Model) renderFilterBar() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, filterFieldCount+1)
	for i := range m.filterInputs {
		ti := m.filterInputs[i]
		if i == m.filterFocus && m.focus == focusFilters {
			ti.PromptStyle = styles.AccentText.Bold(true)
		} else {
			ti.PromptStyle = styles.MutedText
		}
		ti.TextStyle = styles.Text
		parts = append(parts, ti.View())
	}
	if m.prefs.RegexMode {
		f := m.engine.Filters()
		for _, p := range []string{f.Text, f.Level, f.Correlation, f.Service, f.Namespace, f.Trace, f.Request} {
			if !filter.Valid(p) {
				parts = append(parts, styles.DangerText.Render("bad regex"))
				break
			}
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(parts)...)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func joinWithGap(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}
