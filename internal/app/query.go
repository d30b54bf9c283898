package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/engine"
	"github.com/smooai/log-viewer/internal/filter"
	"github.com/smooai/log-viewer/internal/indexer"
)

// QueryOptions select and format rows for Query.
type QueryOptions struct {
	Filters filter.Filters
	// Limit caps the initial output; zero prints every match.
	Limit       int
	OldestFirst bool
	JSON        bool
	// Columns are extra flattened fields printed as key=value.
	Columns []string
	// Follow keeps watching the root and prints new matches.
	Follow bool
}

// Query indexes the root once and writes the matching rows to w.
func Query(ctx context.Context, opts Options, q QueryOptions, w io.Writer) error {
	s, err := load(opts, false)
	if err != nil {
		return err
	}
	defer s.close()

	eopts := engineOptions(s.cfg, s.prefs, s.logger)
	eopts.NewestFirst = !q.OldestFirst
	eopts.Export = false
	eopts.Live = true
	eng := engine.New(eopts)
	defer eng.Close()

	if err := eng.StartFullIndex(ctx, s.root); err != nil {
		return err
	}
	if err := waitForIndex(ctx, eng); err != nil {
		return err
	}
	if err := indexError(eng.Err()); err != nil {
		return err
	}

	eng.SetFilters(q.Filters)
	out := bufio.NewWriter(w)
	p := &rowPrinter{w: out, json: q.JSON, columns: resolveColumns(eng, q.Columns, s)}

	matches := eng.Filtered()
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	cat := eng.Catalog()
	for _, idx := range matches {
		if err := p.print(cat, &cat.Rows[idx]); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if !q.Follow {
		return nil
	}

	seen := make(map[rowKey]struct{}, cat.Len())
	for i := range cat.Rows {
		seen[keyOf(cat, &cat.Rows[i])] = struct{}{}
	}

	eng.StartWatch(ctx, s.root)
	err = pump(ctx, eng, s.cfg.PollInterval/4, func(changed bool) bool {
		if !changed {
			return true
		}
		cat := eng.Catalog()
		for _, idx := range eng.Filtered() {
			row := &cat.Rows[idx]
			k := keyOf(cat, row)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if err := p.print(cat, row); err != nil {
				s.logger.Warn("write failed", "err", err)
				return false
			}
		}
		return out.Flush() == nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// indexError drops per-file failures, which only reduce the result.
func indexError(err error) error {
	var fe *indexer.FileError
	if err == nil || errors.As(err, &fe) {
		return nil
	}
	return err
}

func resolveColumns(eng *engine.Engine, names []string, s *settings) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		resolved, ok := eng.ResolveColumn(name)
		if !ok {
			s.logger.Warn("unknown column", "column", name)
			continue
		}
		out = append(out, resolved)
	}
	return out
}

// rowKey identifies a record across live updates.
type rowKey struct {
	path      string
	lineStart int
	raw       string
}

func keyOf(cat *catalog.Catalog, row *catalog.Row) rowKey {
	return rowKey{path: cat.Files[row.FileID].Path, lineStart: row.LineStart, raw: row.Raw}
}

type rowPrinter struct {
	w       io.Writer
	json    bool
	columns []string
}

func (p *rowPrinter) print(cat *catalog.Catalog, row *catalog.Row) error {
	var err error
	if p.json {
		_, err = fmt.Fprintln(p.w, compactRecord(row.Raw))
	} else {
		_, err = fmt.Fprintln(p.w, p.text(cat, row))
	}
	return err
}

// text renders one row as a single human-readable line.
func (p *rowPrinter) text(cat *catalog.Catalog, row *catalog.Row) string {
	ts := "-"
	if row.HasTime() {
		ts = row.Time.UTC().Format(time.RFC3339Nano)
	}
	level := strings.ToUpper(row.Level)
	if level == "" {
		level = "-"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s", ts, level)
	if row.Service != "" {
		fmt.Fprintf(&b, " [%s]", row.Service)
	}
	msg := strings.Join(strings.Fields(row.Message), " ")
	if msg == "" {
		msg = strings.Join(strings.Fields(row.Raw), " ")
	}
	b.WriteString(" ")
	b.WriteString(msg)
	for _, col := range p.columns {
		if v := row.Value(col); v != "" {
			fmt.Fprintf(&b, " %s=%s", col, strings.Join(strings.Fields(v), " "))
		}
	}
	fmt.Fprintf(&b, " (%s:%d)", cat.Files[row.FileID].Path, row.LineStart+1)
	return b.String()
}

// compactRecord returns the record as one JSON line. Text that is not JSON
// is emitted as a JSON string.
func compactRecord(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err == nil {
		return buf.String()
	}
	quoted, _ := json.Marshal(raw)
	return string(quoted)
}
