package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title bar with root, progress and mode flags.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	root := m.engine.Root()
	if root == "" {
		root = m.root
	}

	parts := []string{
		bg.Render("smooai-log-viewer", styles.Logo),
		bg.Render(truncateMiddle(root, max(20, m.width/3)), styles.MutedText),
	}

	if p, running := m.engine.Progress(); running {
		label := fmt.Sprintf("Indexing %d/%d", p.Processed, p.Total)
		parts = append(parts, bg.Render(label, styles.WarningText.Bold(true)))
	} else {
		cat := m.engine.Catalog()
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d files", len(cat.Files)), styles.Text)+bg.Space()+
				bg.Render(fmt.Sprintf("%d rows", cat.Len()), styles.Text))
	}

	parts = append(parts,
		m.renderFlag(bg, styles, "LIVE", m.engine.Live()),
		bg.Render(ternary(m.engine.NewestFirst(), "newest first", "oldest first"), styles.AccentText),
		m.renderFlag(bg, styles, "REGEX", m.prefs.RegexMode),
	)
	if n := m.engine.Pending(); n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d pending", n), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderFlag(bg BgStyle, styles Styles, label string, on bool) string {
	if on {
		return bg.Render(label, styles.SuccessText)
	}
	return bg.Render(strings.ToLower(label), styles.FaintText)
}

// renderFooter renders the status line and key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	status := m.flash
	statusStyle := styles.AccentText
	if status == "" {
		status = m.engine.Status()
		statusStyle = styles.Text
	}
	if err := m.engine.Err(); err != nil && m.flash == "" {
		statusStyle = styles.DangerText
	}

	pos := fmt.Sprintf("page %d/%d", m.engine.Page()+1, m.engine.PageCount())
	if sel := m.engine.Selection(); sel >= 0 {
		pos = fmt.Sprintf("row %d/%d  %s", sel+1, len(m.engine.Filtered()), pos)
	}

	left := bg.Render(truncate(oneLine(status), max(10, m.width/2)), statusStyle)
	right := bg.Render(pos, styles.MutedText)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	line := left + bg.Spaces(max(1, gap)) + right

	m.help.Width = m.width
	hints := m.help.ShortHelpView(m.keys.ShortHelp())

	return styles.Footer.Width(m.width).Render(line) + "\n" + hints
}
