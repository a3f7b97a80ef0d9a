package playback

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval matches the reference animation cadence of one cursor
// step every 200ms.
const DefaultTickInterval = 200 * time.Millisecond

// Runner drives an Engine on a fixed wall-clock period. The ticker is scoped
// to one simulation: it is released when the route completes, when Stop is
// called, or when the parent context is cancelled, so no orphaned tick can
// mutate state after its owner is gone.
type Runner struct {
	engine   *Engine
	interval time.Duration
	onTick   func(Snapshot)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns a runner ticking the engine every interval. onTick is
// invoked with the snapshot produced by each effective tick and may be nil.
func NewRunner(engine *Engine, interval time.Duration, onTick func(Snapshot)) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Runner{engine: engine, interval: interval, onTick: onTick}
}

// Start launches the tick loop. Any previous loop is stopped first, so the
// runner never holds more than one ticker.
func (r *Runner) Start(parent context.Context) {
	r.Stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	r.mu.Lock()
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap := r.engine.Tick()
				if r.onTick != nil {
					r.onTick(snap)
				}
				if snap.Done || !snap.Active {
					return
				}
			}
		}
	}()
}

// Stop cancels the tick loop and waits for it to exit. Safe to call whether
// or not a loop is running.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
