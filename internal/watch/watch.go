// Package watch polls a set of files and reports additions, content
// changes and removals.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 2 * time.Second

// Kind distinguishes watch events.
type Kind int

const (
	Changed Kind = iota
	Removed
)

func (k Kind) String() string {
	if k == Removed {
		return "removed"
	}
	return "changed"
}

// Event reports one file transition.
type Event struct {
	Kind Kind
	Path string
}

// ListFunc returns the files that should currently be watched.
type ListFunc func() ([]string, error)

// Options configures a Watcher.
type Options struct {
	Interval time.Duration
	Logger   *slog.Logger
}

type snapshot struct {
	modified time.Time
	size     int64
}

// Watcher compares (mtime, size) snapshots on every tick. A file is
// reported changed when it is new, its size differs, or its mtime moved
// forward.
type Watcher struct {
	list     ListFunc
	interval time.Duration
	log      *slog.Logger

	known  map[string]snapshot
	events chan Event

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a stopped watcher.
func New(list ListFunc, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		list:     list,
		interval: opts.Interval,
		log:      opts.Logger,
		known:    make(map[string]snapshot),
		events:   make(chan Event, 256),
	}
}

// Events is the channel the poll loop sends on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Seed records the current snapshot of every file without emitting events.
func (w *Watcher) Seed() {
	files, err := w.list()
	if err != nil {
		w.log.Debug("watch seed failed", "err", err)
		return
	}
	for _, path := range files {
		if snap, ok := stat(path); ok {
			w.known[path] = snap
		}
	}
}

// Poll runs one tick and returns its events. A list error wrapping
// fs.ErrNotExist counts as an empty listing; any other list error skips the
// tick. It must not be called while the loop started by Start is running.
func (w *Watcher) Poll() []Event {
	files, err := w.list()
	if err != nil {
		// A vanished root means every known file is gone.
		if !errors.Is(err, fs.ErrNotExist) {
			w.log.Debug("watch list failed", "err", err)
			return nil
		}
		w.log.Debug("watch root gone", "err", err)
		files = nil
	}
	var out []Event
	seen := make(map[string]struct{}, len(files))
	for _, path := range files {
		seen[path] = struct{}{}
		snap, ok := stat(path)
		if !ok {
			continue
		}
		prev, known := w.known[path]
		if known && !snap.modified.After(prev.modified) && snap.size == prev.size {
			continue
		}
		w.known[path] = snap
		out = append(out, Event{Kind: Changed, Path: path})
	}
	for path := range w.known {
		if _, ok := seen[path]; !ok {
			delete(w.known, path)
			out = append(out, Event{Kind: Removed, Path: path})
		}
	}
	return out
}

func stat(path string) (snapshot, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return snapshot{}, false
	}
	return snapshot{modified: info.ModTime(), size: info.Size()}, true
}

// Start seeds the snapshot map and launches the poll loop. Changes made
// after Start returns are reported. Calling Start on a running watcher is a
// no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	w.Seed()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.run(ctx, w.done)
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		for _, ev := range w.Poll() {
			select {
			case w.events <- ev:
			case <-ctx.Done():
				return
			}
		}
		timer.Reset(w.interval)
	}
}

// Stop cancels the loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
