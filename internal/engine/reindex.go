package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/smooai/log-viewer/internal/indexer"
	"github.com/smooai/log-viewer/internal/watch"
)

// Delta summarises what a batch of watch events did to the catalog.
type Delta struct {
	Updated []string
	Removed []string
	Errors  []indexer.FileError
}

// Changed reports whether the catalog was mutated.
func (d Delta) Changed() bool {
	return len(d.Updated) > 0 || len(d.Removed) > 0
}

// collapse reduces events to the last transition per path.
func collapse(events []watch.Event) (changed, removed []string) {
	c := make(map[string]struct{})
	r := make(map[string]struct{})
	for _, ev := range events {
		switch ev.Kind {
		case watch.Changed:
			delete(r, ev.Path)
			c[ev.Path] = struct{}{}
		case watch.Removed:
			delete(c, ev.Path)
			r[ev.Path] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(c)), slices.Sorted(maps.Keys(r))
}

// ApplyWatchBatch patches the catalog with a batch of watch events.
// Removals are applied before changes. A changed file whose sanitized lines
// are identical to the stored ones is left alone.
func (e *Engine) ApplyWatchBatch(events []watch.Event) Delta {
	changed, removed := collapse(events)
	var d Delta
	c := e.catalog

	for _, path := range removed {
		if id := c.FileIndex(path); id >= 0 {
			c.RemoveFile(id)
			d.Removed = append(d.Removed, path)
		}
	}
	for _, path := range changed {
		lines, records, err := indexer.IndexFile(path)
		if err != nil {
			e.log.Warn("live reindex failed", "path", path, "err", err)
			d.Errors = append(d.Errors, indexer.FileError{Path: path, Err: err})
			continue
		}
		id := c.FileIndex(path)
		switch {
		case id < 0:
			c.AppendFile(path, lines, records)
		case slices.Equal(c.Files[id].Lines, lines):
			continue
		default:
			c.ReplaceFile(id, lines, records)
		}
		d.Updated = append(d.Updated, path)
	}

	if d.Changed() {
		e.syncAfterChange()
		e.status = "Live update: " + describe(d)
		e.log.Debug("live update applied", "updated", len(d.Updated), "removed", len(d.Removed))
	}
	if len(d.Errors) > 0 {
		first := d.Errors[0]
		e.lastErr = &first
		e.status = fmt.Sprintf("Live update error for %s: %v", first.Path, first.Err)
	}
	return d
}

func (e *Engine) syncAfterChange() {
	e.catalog.RecomputeColumns()
	e.catalog.Sort(e.newestFirst)
	e.visible.Prune(e.catalog.Columns)
	e.refilter()
	e.removeExport()
}

func describe(d Delta) string {
	var parts []string
	if n := len(d.Updated); n > 0 {
		parts = append(parts, fmt.Sprintf("updated %d %s", n, plural(n, "file")))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("removed %d %s", n, plural(n, "file")))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
