package app

import (
	"context"
	"time"

	"github.com/smooai/log-viewer/internal/engine"
)

const defaultDrainInterval = 100 * time.Millisecond

// pump drains the engine at a fixed cadence and calls step after each
// drain. It returns when step returns false or the context is cancelled.
// Headless commands use it in place of the TUI tick.
func pump(ctx context.Context, eng *engine.Engine, interval time.Duration, step func(changed bool) bool) error {
	if interval <= 0 {
		interval = defaultDrainInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !step(eng.Drain()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// waitForIndex blocks until the running full index pass has been applied.
func waitForIndex(ctx context.Context, eng *engine.Engine) error {
	return pump(ctx, eng, defaultDrainInterval, func(bool) bool {
		return eng.Indexing()
	})
}
