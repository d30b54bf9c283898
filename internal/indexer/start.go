package indexer

import "context"

// Event is sent on the channel returned by Start. Progress events carry
// counts only; the final event has Done set with either Result or Err.
type Event struct {
	Progress Progress
	Done     bool
	Result   *Result
	Err      error
}

// Start runs Build on a new goroutine. Progress events are dropped when
// the consumer falls behind; the final event is always delivered unless
// ctx is cancelled first. The channel is closed afterwards.
func Start(ctx context.Context, root string, opts Options) <-chan Event {
	events := make(chan Event, 64)
	go func() {
		defer close(events)
		res, err := Build(ctx, root, opts, func(p Progress) {
			select {
			case events <- Event{Progress: p}:
			default:
			}
		})
		final := Event{Done: true, Result: res, Err: err}
		if res != nil {
			total := len(res.Catalog.Files)
			final.Progress = Progress{Processed: total, Total: total}
		}
		select {
		case events <- final:
		case <-ctx.Done():
		}
	}()
	return events
}
