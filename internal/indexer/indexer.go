// Package indexer builds a catalog from the log files under a root.
//
// IndexFile handles one file: map it, split it into lines, sanitize each
// line and parse the records. Build discovers every eligible file and runs
// IndexFile across a bounded worker pool. Workers own their results; the
// merge happens on the calling goroutine once all of them are done, so the
// resulting FileIDs and row order do not depend on scheduling.
//
// Start runs Build on its own goroutine and reports progress and the final
// result over a channel.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/export"
	"github.com/smooai/log-viewer/internal/logfile"
	"github.com/smooai/log-viewer/internal/record"
)

// Options configures a full index pass.
type Options struct {
	Discovery Discovery
	// Workers bounds the pool; zero means GOMAXPROCS.
	Workers int
	// NewestFirst reverses the final row order.
	NewestFirst bool
	// Export mirrors the finished catalog into SQLite under ExportDir.
	Export    bool
	ExportDir string
	Logger    *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FileError records a file that could not be indexed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Result is the outcome of a successful pass.
type Result struct {
	Catalog *catalog.Catalog
	// Failures lists files that contributed no lines or rows.
	Failures []FileError
	// ExportPath is set when the export was written.
	ExportPath string
	ExportErr  error
}

// Progress counts completed files.
type Progress struct {
	Processed int
	Total     int
}

// IndexFile reads and parses one file.
func IndexFile(path string) ([]string, []record.Record, error) {
	lines, err := logfile.Read(path)
	if err != nil {
		return nil, nil, err
	}
	return lines, record.Parse(lines), nil
}

type fileResult struct {
	path    string
	lines   []string
	records []record.Record
	columns map[string]struct{}
	err     error
}

func indexOne(path string) fileResult {
	res := fileResult{path: path, columns: make(map[string]struct{})}
	res.lines, res.records, res.err = IndexFile(path)
	for _, rec := range res.records {
		for key := range rec.Flat {
			res.columns[key] = struct{}{}
		}
	}
	return res
}

// Build indexes every file under root. progress, if set, is called after
// each file with a count that never decreases. A per-file failure leaves
// that file empty and is reported in Result.Failures. Only discovery
// failures on root abort the pass.
func Build(ctx context.Context, root string, opts Options, progress func(Progress)) (*Result, error) {
	log := opts.logger().With("root", root)

	files, err := opts.Discovery.Files(root)
	if err != nil {
		return nil, fmt.Errorf("discover log files: %w", err)
	}
	total := len(files)
	report := func(Progress) {}
	if progress != nil {
		report = progress
	}
	report(Progress{Total: total})

	results := make([]fileResult, total)
	var (
		mu        sync.Mutex
		processed int
	)
	var g errgroup.Group
	g.SetLimit(opts.workers())
	for i, path := range files {
		g.Go(func() error {
			results[i] = indexOne(path)
			mu.Lock()
			processed++
			report(Progress{Processed: min(processed, total), Total: total})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{Catalog: merge(results)}
	res.Catalog.Sort(opts.NewestFirst)
	for _, r := range results {
		if r.err != nil {
			log.Warn("index file failed", "path", r.path, "err", r.err)
			res.Failures = append(res.Failures, FileError{Path: r.path, Err: r.err})
		}
	}
	log.Debug("index built", "files", total, "rows", len(res.Catalog.Rows), "failures", len(res.Failures))

	if opts.Export {
		res.ExportPath, res.ExportErr = export.Write(ctx, opts.ExportDir, res.Catalog)
		if res.ExportErr != nil {
			log.Warn("export failed", "err", res.ExportErr)
		}
	}
	return res, nil
}

// merge assigns FileIDs in path order and unions the column sets.
func merge(results []fileResult) *catalog.Catalog {
	slices.SortFunc(results, func(a, b fileResult) int { return strings.Compare(a.path, b.path) })
	c := catalog.New()
	columns := make(map[string]struct{})
	for _, r := range results {
		c.AppendFile(r.path, r.lines, r.records)
		maps.Copy(columns, r.columns)
	}
	c.Columns = catalog.SortedColumns(columns)
	return c
}
