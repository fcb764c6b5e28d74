package client

import (
	"context"
	"strings"
	"sync"
	"time"
)

const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer runs only the last of a burst of calls. Each Do cancels the
// pending timer and the context handed to the previous call.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewDebouncer returns a Debouncer; a non-positive delay means DefaultDebounceDelay
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Do(ctx context.Context, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()

	callCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if callCtx.Err() != nil {
			return
		}
		fn(callCtx)
	})
}

// Stop drops the pending call, if any, and cancels one already running
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// SearchAsYouType debounces SearchMovies and delivers only results for the
// latest query. Blank queries are answered immediately with an empty list.
func (c *Client) SearchAsYouType(ctx context.Context, d *Debouncer, query string, deliver func([]Movie, error)) {
	if strings.TrimSpace(query) == "" {
		d.Stop()
		deliver([]Movie{}, nil)
		return
	}

	d.Do(ctx, func(ctx context.Context) {
		results, err := c.SearchMovies(ctx, query)
		if ctx.Err() != nil {
			return
		}
		deliver(results, err)
	})
}
