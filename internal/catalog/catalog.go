// Package catalog holds the in-memory index of log files and records.
//
// A Catalog is owned by a single writer. Readers get row indexes from the
// filter package and look rows up directly; there is no internal locking.
package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/smooai/log-viewer/internal/record"
)

// FileEntry is one indexed file and its sanitized lines.
type FileEntry struct {
	Path  string
	Lines []string
}

// Row is a record bound to the file it came from.
type Row struct {
	FileID int
	record.Record
}

// Catalog aggregates files, rows and the union of dynamic column names.
// FileIDs are dense indexes into Files.
type Catalog struct {
	Files   []FileEntry
	Rows    []Row
	Columns []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rows)
}

// FileIndex returns the FileID for path, or -1.
func (c *Catalog) FileIndex(path string) int {
	for i, f := range c.Files {
		if f.Path == path {
			return i
		}
	}
	return -1
}

// AppendFile adds a file and its records, returning the new FileID.
func (c *Catalog) AppendFile(path string, lines []string, records []record.Record) int {
	id := len(c.Files)
	c.Files = append(c.Files, FileEntry{Path: path, Lines: lines})
	c.appendRows(id, records)
	return id
}

// ReplaceFile swaps the lines and rows of an existing file.
func (c *Catalog) ReplaceFile(id int, lines []string, records []record.Record) {
	c.Files[id].Lines = lines
	c.Rows = slices.DeleteFunc(c.Rows, func(r Row) bool { return r.FileID == id })
	c.appendRows(id, records)
}

// RemoveFile drops a file and its rows, shifting higher FileIDs down by one.
func (c *Catalog) RemoveFile(id int) {
	c.Files = slices.Delete(c.Files, id, id+1)
	c.Rows = slices.DeleteFunc(c.Rows, func(r Row) bool { return r.FileID == id })
	for i := range c.Rows {
		if c.Rows[i].FileID > id {
			c.Rows[i].FileID--
		}
	}
}

func (c *Catalog) appendRows(id int, records []record.Record) {
	c.Rows = slices.Grow(c.Rows, len(records))
	for _, rec := range records {
		c.Rows = append(c.Rows, Row{FileID: id, Record: rec})
	}
}

// RecomputeColumns rebuilds Columns from the flat keys of every row.
func (c *Catalog) RecomputeColumns() {
	set := make(map[string]struct{})
	for _, row := range c.Rows {
		for key := range row.Flat {
			set[key] = struct{}{}
		}
	}
	c.Columns = SortedColumns(set)
}

// SortedColumns returns the keys of set in ascending order.
func SortedColumns(set map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(set))
}

// Sort orders rows by (time, file, first line), rows without a time first.
// newestFirst reverses the whole ordering.
func (c *Catalog) Sort(newestFirst bool) {
	slices.SortStableFunc(c.Rows, Compare)
	if newestFirst {
		slices.Reverse(c.Rows)
	}
}

// Compare orders rows by time, then FileID, then LineStart.
func Compare(a, b Row) int {
	if n := a.Time.Compare(b.Time); n != 0 {
		return n
	}
	if a.FileID != b.FileID {
		return a.FileID - b.FileID
	}
	return a.LineStart - b.LineStart
}

// File returns the entry a row belongs to.
func (c *Catalog) File(row Row) FileEntry {
	return c.Files[row.FileID]
}

// ContextRange returns the half-open line range around row, widened by
// before and after and clamped to the file.
func (c *Catalog) ContextRange(row Row, before, after int) (int, int) {
	total := len(c.Files[row.FileID].Lines)
	start := max(row.LineStart-max(before, 0), 0)
	end := min(row.LineEnd+1+max(after, 0), total)
	return start, end
}

// ContextLines returns the lines of ContextRange.
func (c *Catalog) ContextLines(row Row, before, after int) []string {
	start, end := c.ContextRange(row, before, after)
	return c.Files[row.FileID].Lines[start:end]
}

// Validate checks the catalog invariants.
func (c *Catalog) Validate() error {
	for i, row := range c.Rows {
		if row.FileID < 0 || row.FileID >= len(c.Files) {
			return fmt.Errorf("row %d: file id %d out of range (%d files)", i, row.FileID, len(c.Files))
		}
		lines := len(c.Files[row.FileID].Lines)
		if row.LineStart < 0 || row.LineStart > row.LineEnd || row.LineEnd >= lines {
			return fmt.Errorf("row %d: span [%d,%d] invalid for %d lines", i, row.LineStart, row.LineEnd, lines)
		}
	}
	set := make(map[string]struct{})
	for _, row := range c.Rows {
		for key := range row.Flat {
			set[key] = struct{}{}
		}
	}
	if want := SortedColumns(set); !slices.Equal(want, c.Columns) {
		return fmt.Errorf("columns out of sync: have %d, want %d", len(c.Columns), len(want))
	}
	return nil
}

// Value returns the display value of key for row.
func (r Row) Value(key string) string {
	switch key {
	case record.KeyTime:
		if !r.HasTime() {
			return ""
		}
		return record.FormatTimestamp(r.Time)
	case record.KeyLevel:
		return r.Level
	case record.KeyMessage:
		return r.Message
	case record.KeyCorrelationID:
		return r.Correlation
	case record.KeyName:
		return r.Name
	case record.KeyService:
		return r.Service
	case record.KeyNamespace:
		return r.Namespace
	case record.KeyTraceID:
		return r.TraceID
	case record.KeyRequestID:
		return r.RequestID
	case "error", "errorDetails":
		if v, ok := r.Flat[key]; ok {
			return v
		}
		return r.Flat["@"+key]
	}
	return r.Flat[key]
}

// FlatValues returns the flat values ordered by key.
func (r Row) FlatValues() []string {
	keys := slices.Sorted(maps.Keys(r.Flat))
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = r.Flat[k]
	}
	return values
}

// Summary is a one-line description for status output.
func (c *Catalog) Summary() string {
	if c == nil {
		return "empty catalog"
	}
	return fmt.Sprintf("%d files, %d rows, %d columns", len(c.Files), len(c.Rows), len(c.Columns))
}
