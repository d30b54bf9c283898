package catalog

import (
	"slices"
	"testing"
	"time"

	"github.com/smooai/log-viewer/internal/record"
)

func rec(start, end int, ts string, flat map[string]string) record.Record {
	r := record.Record{LineStart: start, LineEnd: end, Flat: flat}
	if ts != "" {
		r.Time, _ = record.ParseTimestamp(ts)
	}
	return r
}

func threeFiles() *Catalog {
	c := New()
	c.AppendFile("/logs/a.log", []string{"a0", "a1"}, []record.Record{
		rec(0, 0, "2024-01-01T00:00:01Z", map[string]string{"a": "1"}),
		rec(1, 1, "", map[string]string{"shared": "x"}),
	})
	c.AppendFile("/logs/b.log", []string{"b0"}, []record.Record{
		rec(0, 0, "2024-01-01T00:00:02Z", map[string]string{"b": "2"}),
	})
	c.AppendFile("/logs/c.log", []string{"c0", "c1", "c2"}, []record.Record{
		rec(0, 2, "2024-01-01T00:00:00Z", map[string]string{"c": "3", "shared": "y"}),
	})
	c.RecomputeColumns()
	return c
}

func TestRecomputeColumns(t *testing.T) {
	c := threeFiles()
	want := []string{"a", "b", "c", "shared"}
	if !slices.Equal(c.Columns, want) {
		t.Fatalf("Columns = %v, want %v", c.Columns, want)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRemoveFile_RenumbersHigherIDs(t *testing.T) {
	c := threeFiles()
	c.RemoveFile(1)
	c.RecomputeColumns()

	if len(c.Files) != 2 || c.Files[1].Path != "/logs/c.log" {
		t.Fatalf("Files = %+v", c.Files)
	}
	for _, row := range c.Rows {
		if row.FileID == 1 && row.Flat["c"] != "3" {
			t.Fatalf("row with FileID 1 should come from c.log: %+v", row)
		}
		if row.Flat["b"] != "" {
			t.Fatalf("row from removed file survived: %+v", row)
		}
	}
	if !slices.Equal(c.Columns, []string{"a", "c", "shared"}) {
		t.Fatalf("Columns = %v", c.Columns)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestReplaceFile(t *testing.T) {
	c := threeFiles()
	c.ReplaceFile(0, []string{"n0"}, []record.Record{rec(0, 0, "", map[string]string{"new": "v"})})
	c.RecomputeColumns()

	var got []Row
	for _, row := range c.Rows {
		if row.FileID == 0 {
			got = append(got, row)
		}
	}
	if len(got) != 1 || got[0].Flat["new"] != "v" {
		t.Fatalf("rows for file 0 = %+v", got)
	}
	if !slices.Contains(c.Columns, "new") || slices.Contains(c.Columns, "a") {
		t.Fatalf("Columns = %v", c.Columns)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFileIndex(t *testing.T) {
	c := threeFiles()
	if got := c.FileIndex("/logs/c.log"); got != 2 {
		t.Fatalf("FileIndex = %d, want 2", got)
	}
	if got := c.FileIndex("/logs/missing.log"); got != -1 {
		t.Fatalf("FileIndex = %d, want -1", got)
	}
}

func TestSort(t *testing.T) {
	c := threeFiles()

	c.Sort(false)
	if c.Rows[0].HasTime() {
		t.Fatalf("untimed row should sort first oldest-first: %+v", c.Rows[0])
	}
	for i := 1; i < len(c.Rows); i++ {
		if Compare(c.Rows[i-1], c.Rows[i]) > 0 {
			t.Fatalf("rows %d and %d out of order", i-1, i)
		}
	}

	c.Sort(true)
	if c.Rows[len(c.Rows)-1].HasTime() {
		t.Fatalf("untimed row should sort last newest-first")
	}
	if want, _ := record.ParseTimestamp("2024-01-01T00:00:02Z"); !c.Rows[0].Time.Equal(want) {
		t.Fatalf("newest row = %v, want %v", c.Rows[0].Time, want)
	}
}

func TestCompare_TieBreaks(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Row{FileID: 0, Record: record.Record{LineStart: 5, Time: ts}}
	b := Row{FileID: 1, Record: record.Record{LineStart: 0, Time: ts}}
	c := Row{FileID: 1, Record: record.Record{LineStart: 3, Time: ts}}
	if Compare(a, b) >= 0 || Compare(b, c) >= 0 || Compare(c, c) != 0 {
		t.Fatalf("unexpected tie-break ordering")
	}
}

func TestContextRange(t *testing.T) {
	c := threeFiles()
	row := Row{FileID: 2, Record: record.Record{LineStart: 1, LineEnd: 1}}

	tests := []struct {
		before, after int
		start, end    int
	}{
		{0, 0, 1, 2},
		{1, 1, 0, 3},
		{10, 10, 0, 3},
		{-1, -1, 1, 2},
	}
	for _, tt := range tests {
		start, end := c.ContextRange(row, tt.before, tt.after)
		if start != tt.start || end != tt.end {
			t.Fatalf("ContextRange(%d,%d) = [%d,%d), want [%d,%d)", tt.before, tt.after, start, end, tt.start, tt.end)
		}
	}
	if got := c.ContextLines(row, 1, 0); !slices.Equal(got, []string{"c0", "c1"}) {
		t.Fatalf("ContextLines = %v", got)
	}
}

func TestRowValue(t *testing.T) {
	r := Row{Record: record.Record{
		Level:   "info",
		TraceID: "t-1",
		Flat:    map[string]string{"@error": "boom", "errorDetails": "direct", "nested.k": "v"},
	}}
	r.Time = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := map[string]string{
		"time":         "2024-01-01T00:00:00+00:00",
		"level":        "info",
		"traceId":      "t-1",
		"error":        "boom",
		"errorDetails": "direct",
		"nested.k":     "v",
		"absent":       "",
	}
	for key, want := range tests {
		if got := r.Value(key); got != want {
			t.Fatalf("Value(%q) = %q, want %q", key, got, want)
		}
	}
	if got := (Row{}).Value("time"); got != "" {
		t.Fatalf("Value(time) on untimed row = %q", got)
	}
}
