package engine

import "context"

// Flusher materializes a persistence layer's deferred writes.
//
// The host supplies one per engine. Statements the flush itself executes
// flow through the interception hook like any others, so flush-induced
// writes are counted normally.
type Flusher interface {
	FlushPendingWrites(ctx context.Context) error
}

// FlusherFunc adapts a plain function to the Flusher interface.
type FlusherFunc func(ctx context.Context) error

func (f FlusherFunc) FlushPendingWrites(ctx context.Context) error {
	return f(ctx)
}

// NopFlusher is for hosts whose persistence layer writes through
// immediately and has nothing to materialize.
var NopFlusher Flusher = FlusherFunc(func(context.Context) error { return nil })
