// Package engine owns a catalog and everything that reads or mutates it.
//
// An Engine is driven from a single goroutine. Background work (the full
// index pass and the file watcher) only talks to it through channels, and
// those channels are drained by Drain. The catalog is replaced when an
// index pass finishes and is patched in place when a batch of watch events
// is applied; nothing else writes to it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/columns"
	"github.com/smooai/log-viewer/internal/export"
	"github.com/smooai/log-viewer/internal/filter"
	"github.com/smooai/log-viewer/internal/indexer"
	"github.com/smooai/log-viewer/internal/watch"
)

// ErrIndexing is returned when a full index is requested while one runs.
var ErrIndexing = errors.New("index pass already running")

const (
	DefaultPageSize = 200
	MinPageSize     = 50
	MaxPageSize     = 3000
	DefaultContext  = 2
)

// Options configures an Engine.
type Options struct {
	Discovery    indexer.Discovery
	Workers      int
	PollInterval time.Duration
	NewestFirst  bool
	Live         bool
	PageSize     int

	ContextBefore int
	ContextAfter  int

	Export    bool
	ExportDir string

	VisibleColumns []string
	Regex          bool
	Logger         *slog.Logger
}

// Engine is the owned state behind the viewer. It is not safe for
// concurrent use.
type Engine struct {
	opts Options
	log  *slog.Logger

	root     string
	catalog  *catalog.Catalog
	filters  filter.Filters
	filtered []int
	visible  *columns.Visible

	newestFirst bool
	live        bool
	page        int
	pageSize    int
	selected    int

	indexing    bool
	indexEvents <-chan indexer.Event
	indexCancel context.CancelFunc
	progress    indexer.Progress

	watcher *watch.Watcher
	pending []watch.Event

	exportPath string
	status     string
	lastErr    error
}

// New returns an engine with an empty catalog.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := &Engine{
		opts:        opts,
		log:         opts.Logger,
		catalog:     catalog.New(),
		visible:     columns.NewVisible(opts.VisibleColumns),
		newestFirst: opts.NewestFirst,
		live:        opts.Live,
		pageSize:    clampPageSize(opts.PageSize),
		selected:    -1,
		filters:     filter.Filters{Regex: opts.Regex},
		status:      "Choose a directory to index",
	}
	return e
}

func clampPageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return min(max(n, MinPageSize), MaxPageSize)
}

// Root is the directory being indexed.
func (e *Engine) Root() string { return e.root }

// Catalog returns the current catalog. Callers must not mutate it.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Status is a one-line, human readable summary of the last operation.
func (e *Engine) Status() string { return e.status }

// Err returns the most recent background error, if any.
func (e *Engine) Err() error { return e.lastErr }

// ExportPath is the SQLite mirror of the current catalog, if one exists.
func (e *Engine) ExportPath() string { return e.exportPath }

// Open watches root and starts a full index of it.
func (e *Engine) Open(ctx context.Context, root string) error {
	e.StartWatch(ctx, root)
	return e.StartFullIndex(ctx, root)
}

// StartFullIndex launches a full index pass of root in the background. The
// result replaces the catalog on a later Drain. Queued watch events are
// discarded since the new pass observes the same files.
func (e *Engine) StartFullIndex(ctx context.Context, root string) error {
	if e.indexing {
		return ErrIndexing
	}
	ctx, cancel := context.WithCancel(ctx)
	e.root = root
	e.indexing = true
	e.indexCancel = cancel
	e.progress = indexer.Progress{}
	e.pending = nil
	e.status = fmt.Sprintf("Indexing %s…", root)
	e.indexEvents = indexer.Start(ctx, root, indexer.Options{
		Discovery:   e.opts.Discovery,
		Workers:     e.opts.Workers,
		NewestFirst: e.newestFirst,
		Export:      e.opts.Export,
		ExportDir:   e.opts.ExportDir,
		Logger:      e.log,
	})
	e.log.Info("index started", "root", root)
	return nil
}

// Indexing reports whether a full pass is running.
func (e *Engine) Indexing() bool { return e.indexing }

// Progress returns the latest progress of the running pass.
func (e *Engine) Progress() (indexer.Progress, bool) {
	return e.progress, e.indexing
}

// StartWatch replaces any running watcher with one for root. The previous
// watcher has fully stopped before the new one starts.
func (e *Engine) StartWatch(ctx context.Context, root string) {
	e.StopWatch()
	discovery := e.opts.Discovery
	e.watcher = watch.New(func() ([]string, error) {
		return discovery.Files(root)
	}, watch.Options{Interval: e.opts.PollInterval, Logger: e.log})
	e.watcher.Start(ctx)
	e.log.Debug("watch started", "root", root)
}

// StopWatch stops the watcher, if any, and drops its unread events.
func (e *Engine) StopWatch() {
	if e.watcher == nil {
		return
	}
	e.watcher.Stop()
	e.watcher = nil
}

// Watching reports whether a watcher is running.
func (e *Engine) Watching() bool { return e.watcher != nil }

// Drain reads every available index and watch message without blocking
// and applies them. It reports whether visible state changed.
func (e *Engine) Drain() bool {
	changed := e.drainIndex()
	e.drainWatch()
	if e.live && !e.indexing && len(e.pending) > 0 {
		batch := e.pending
		e.pending = nil
		if d := e.ApplyWatchBatch(batch); d.Changed() || len(d.Errors) > 0 {
			changed = true
		}
	}
	return changed
}

func (e *Engine) drainIndex() bool {
	if e.indexEvents == nil {
		return false
	}
	changed := false
	for {
		select {
		case ev, ok := <-e.indexEvents:
			if !ok {
				// Closed without a final event: the pass was cancelled.
				e.finishIndex()
				return true
			}
			if !ev.Done {
				e.progress = ev.Progress
				e.status = fmt.Sprintf("Indexing %d/%d files", ev.Progress.Processed, ev.Progress.Total)
				changed = true
				continue
			}
			e.finishIndex()
			e.applyIndexResult(ev.Result, ev.Err)
			return true
		default:
			return changed
		}
	}
}

func (e *Engine) finishIndex() {
	if e.indexCancel != nil {
		e.indexCancel()
	}
	e.indexing = false
	e.indexEvents = nil
	e.indexCancel = nil
	e.progress = indexer.Progress{}
}

func (e *Engine) applyIndexResult(res *indexer.Result, err error) {
	if err != nil {
		e.lastErr = err
		e.status = fmt.Sprintf("Index error: %v", err)
		e.log.Warn("index failed", "root", e.root, "err", err)
		return
	}
	e.removeExport()
	e.catalog = res.Catalog
	e.exportPath = res.ExportPath
	// The sort direction may have been toggled while the pass ran.
	e.catalog.Sort(e.newestFirst)
	e.visible.Prune(e.catalog.Columns)
	e.refilter()

	e.status = fmt.Sprintf("Indexed %d files, %d rows", len(e.catalog.Files), len(e.catalog.Rows))
	e.lastErr = nil
	if n := len(res.Failures); n > 0 {
		e.lastErr = &res.Failures[0]
		e.status += fmt.Sprintf(", %d unreadable", n)
	}
	if res.ExportErr != nil {
		e.status += " (export failed)"
	}
	e.log.Info("index finished", "root", e.root, "files", len(e.catalog.Files), "rows", len(e.catalog.Rows))
}

func (e *Engine) drainWatch() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case ev := <-e.watcher.Events():
			e.pending = append(e.pending, ev)
		default:
			if !e.live && len(e.pending) > 0 && !e.indexing {
				e.status = "Log changes detected while live mode is off"
			}
			return
		}
	}
}

// Pending returns the number of queued watch events.
func (e *Engine) Pending() int { return len(e.pending) }

// SetLive toggles whether queued watch events are applied.
func (e *Engine) SetLive(live bool) { e.live = live }

// Live reports whether watch events are applied.
func (e *Engine) Live() bool { return e.live }

// SetNewestFirst changes the sort direction and re-filters.
func (e *Engine) SetNewestFirst(newestFirst bool) {
	if e.newestFirst == newestFirst {
		return
	}
	e.newestFirst = newestFirst
	e.catalog.Sort(newestFirst)
	e.refilter()
}

// NewestFirst reports the sort direction.
func (e *Engine) NewestFirst() bool { return e.newestFirst }

func (e *Engine) removeExport() {
	if e.exportPath == "" {
		return
	}
	if err := export.Remove(e.exportPath); err != nil {
		e.log.Warn("remove export failed", "path", e.exportPath, "err", err)
	}
	e.exportPath = ""
}

// Close stops background work and removes the export file.
func (e *Engine) Close() {
	e.StopWatch()
	if e.indexCancel != nil {
		e.indexCancel()
	}
	e.removeExport()
}
