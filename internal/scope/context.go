package scope

import "context"

type ctxKey struct{}

// NewContext returns a context carrying id.
//
// The orchestrator injects the scope ID before running a test body; every
// capture site (the driver hook, the flush collaborator) receives the same
// context and therefore the same ID, even when the body fans work out
// across goroutines.
func NewContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the scope ID from ctx.
// ok is false when ctx carries no scope ID.
func FromContext(ctx context.Context) (ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(ID)
	return id, ok
}
