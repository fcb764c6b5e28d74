package client

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDebouncerRunsLastCall(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(20 * time.Millisecond)
	var (
		mu    sync.Mutex
		calls []int
		done  = make(chan struct{})
	)

	for i := 1; i <= 5; i++ {
		n := i
		d.Do(context.Background(), func(context.Context) {
			mu.Lock()
			calls = append(calls, n)
			mu.Unlock()
			close(done)
		})
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 5 {
		t.Errorf("calls = %v, want [5]", calls)
	}
}

func TestDebouncerCancelsRunningCall(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(time.Millisecond)
	started := make(chan context.Context, 1)
	d.Do(context.Background(), func(ctx context.Context) {
		started <- ctx
		<-ctx.Done()
	})

	var ctx context.Context
	select {
	case ctx = <-started:
	case <-time.After(time.Second):
		t.Fatal("call never started")
	}

	d.Do(context.Background(), func(context.Context) {})
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("previous call was not cancelled")
	}
	d.Stop()
}

func TestNewDebouncerDefaultDelay(t *testing.T) {
	t.Parallel()

	if d := NewDebouncer(0); d.delay != DefaultDebounceDelay {
		t.Errorf("delay = %v, want %v", d.delay, DefaultDebounceDelay)
	}
}

func TestSearchAsYouTypeBlankQuery(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:0", nil)
	d := NewDebouncer(time.Hour)

	var got []int
	c.SearchAsYouType(context.Background(), d, "   ", func(results []Movie, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		got = append(got, len(results))
	})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("blank query delivered %v, want one empty result", got)
	}
}
