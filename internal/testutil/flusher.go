package testutil

import (
	"context"
	"sync"
)

// CapturingFlusher is a Flusher double that counts invocations, optionally
// fails, and optionally runs a hook inside the flush (to model a
// write-behind layer emitting its deferred statements at flush time).
//
// Thread-safety: all methods are safe for concurrent use.
type CapturingFlusher struct {
	mu    sync.Mutex
	calls int

	// Err, when non-nil, is returned from every FlushPendingWrites call.
	Err error

	// OnFlush, when non-nil, runs inside FlushPendingWrites before Err is
	// considered. The context carries the scope ID of the run under test.
	OnFlush func(ctx context.Context) error
}

// FlushPendingWrites implements engine.Flusher.
func (f *CapturingFlusher) FlushPendingWrites(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.OnFlush != nil {
		if err := f.OnFlush(ctx); err != nil {
			return err
		}
	}
	return f.Err
}

// Calls returns how many times FlushPendingWrites ran.
func (f *CapturingFlusher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
