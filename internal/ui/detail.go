package ui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/record"
)

// detailHeight is the outer height of the detail pane, border included.
func (m Model) detailHeight() int {
	return max(6, (m.height-6)/2)
}

// refreshDetail loads the selected record into the detail viewport.
func (m *Model) refreshDetail() {
	if !m.showDetail {
		return
	}
	m.detail.Width = m.width - 4
	m.detail.Height = m.detailHeight() - 2

	row, ok := m.engine.SelectedRow()
	if !ok {
		m.detail.SetContent(m.theme.Styles().MutedText.Render("No row selected"))
		return
	}
	start, lines := m.engine.Context(row)
	m.detail.SetContent(m.detailContent(row, start, lines))
	m.detail.GotoTop()
}

// detailContent renders the pretty-printed record followed by its source
// context. Lines of the record itself are marked.
func (m Model) detailContent(row catalog.Row, start int, lines []string) string {
	styles := m.theme.Styles()
	file := m.engine.Catalog().File(row)

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(file.Path))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("  lines %d-%d", row.LineStart+1, row.LineEnd+1)))
	if row.Level != "" {
		b.WriteString("  ")
		b.WriteString(styles.LevelStyle(row.Level).Bold(true).Render(strings.ToUpper(row.Level)))
	}
	if row.HasTime() {
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(row.Time.Format(tableTimeLayout)))
	}
	b.WriteString("\n\n")

	pretty, _ := record.PrettyJSON(row.Raw)
	b.WriteString(highlightJSON(pretty, m.theme.SyntaxStyle))
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Bold(true).Render("Context"))
	b.WriteString("\n")
	width := len(fmt.Sprint(start + len(lines)))
	for i, line := range lines {
		n := start + i
		marker := "  "
		lineStyle := styles.MutedText
		if n >= row.LineStart && n <= row.LineEnd {
			marker = "> "
			lineStyle = styles.Text
		}
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%s%*d ", marker, width, n+1)))
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderDetail renders the detail pane.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	return styles.Pane.Width(m.width - 2).Render(m.detail.View())
}

// highlightJSON colors JSON text for the terminal. Anything chroma cannot
// handle is returned unchanged.
func highlightJSON(code, styleName string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
