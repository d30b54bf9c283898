package engine

import (
	"fmt"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/columns"
	"github.com/smooai/log-viewer/internal/filter"
)

// SetFilters replaces the active filters and re-filters.
func (e *Engine) SetFilters(f filter.Filters) []int {
	e.filters = f
	return e.ApplyFilters()
}

// Filters returns the active filters.
func (e *Engine) Filters() filter.Filters { return e.filters }

// ApplyFilters re-evaluates the filters against the catalog and resets
// paging and selection.
func (e *Engine) ApplyFilters() []int {
	e.refilter()
	if !e.indexing {
		e.status = fmt.Sprintf("%d matches", len(e.filtered))
	}
	return e.filtered
}

func (e *Engine) refilter() {
	e.filtered = filter.Apply(e.catalog.Rows, e.filters)
	e.page = 0
	e.selected = -1
}

// Filtered is the current row ordering, as indexes into Catalog().Rows.
func (e *Engine) Filtered() []int { return e.filtered }

// ResolveColumn maps a typed name onto a known column.
func (e *Engine) ResolveColumn(name string) (string, bool) {
	return columns.Resolve(name, e.catalog.Columns)
}

// AddColumn resolves query and shows the column.
func (e *Engine) AddColumn(query string) columns.AddResult {
	res := e.visible.Add(query, e.catalog.Columns)
	switch res.Status {
	case columns.Added:
		e.status = fmt.Sprintf("Added column %s", res.Column)
	case columns.AlreadyVisible:
		e.status = fmt.Sprintf("Column %s is already visible", res.Column)
	case columns.BaseColumn:
		e.status = fmt.Sprintf("%s is always shown", columns.Label(res.Column))
	case columns.NotFound:
		e.status = fmt.Sprintf("No column matches %q", res.Column)
	}
	return res
}

// RemoveColumn hides a dynamic column.
func (e *Engine) RemoveColumn(name string) bool {
	return e.visible.Remove(name)
}

// VisibleColumns lists the shown dynamic columns.
func (e *Engine) VisibleColumns() []string { return e.visible.Names() }

// Suggestions offers columns that could be added for query.
func (e *Engine) Suggestions(query string) []string {
	return columns.Suggest(query, e.catalog.Columns, e.visible, columns.SuggestLimit)
}

// PageSize is the number of rows per page.
func (e *Engine) PageSize() int { return e.pageSize }

// SetPageSize clamps and applies a new page size, returning to page zero.
func (e *Engine) SetPageSize(n int) {
	e.pageSize = clampPageSize(n)
	e.page = 0
	e.selected = -1
}

// PageCount is at least one.
func (e *Engine) PageCount() int {
	return max(1, (len(e.filtered)+e.pageSize-1)/e.pageSize)
}

// Page is the zero-based current page.
func (e *Engine) Page() int { return e.page }

// SetPage moves to page p, clamped to the valid range.
func (e *Engine) SetPage(p int) {
	p = min(max(p, 0), e.PageCount()-1)
	if p != e.page {
		e.page = p
		e.selected = -1
	}
}

// PageRows returns the catalog row indexes on the current page.
func (e *Engine) PageRows() []int {
	start := min(e.page*e.pageSize, len(e.filtered))
	end := min(start+e.pageSize, len(e.filtered))
	return e.filtered[start:end]
}

// Select marks the i-th entry of Filtered as selected. Out-of-range values
// clear the selection. The page follows the selection.
func (e *Engine) Select(i int) {
	if i < 0 || i >= len(e.filtered) {
		e.selected = -1
		return
	}
	e.selected = i
	e.page = i / e.pageSize
}

// Selection returns the selected position in Filtered, or -1.
func (e *Engine) Selection() int { return e.selected }

// SelectedRow returns the selected row.
func (e *Engine) SelectedRow() (catalog.Row, bool) {
	if e.selected < 0 || e.selected >= len(e.filtered) {
		return catalog.Row{}, false
	}
	return e.catalog.Rows[e.filtered[e.selected]], true
}

// Context returns the lines around row using the configured window.
func (e *Engine) Context(row catalog.Row) (start int, lines []string) {
	before := min(max(e.opts.ContextBefore, 0), 50)
	after := min(max(e.opts.ContextAfter, 0), 50)
	start, end := e.catalog.ContextRange(row, before, after)
	return start, e.catalog.Files[row.FileID].Lines[start:end]
}
