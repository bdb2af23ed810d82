package scope

import "sync"

// Registry maps scope IDs to open scopes.
//
// The registry is the only shared mutable structure in the engine. It is
// deliberately an instance, not a package-level singleton: cross-test state
// leaking through process-wide storage is the exact failure mode this
// design exists to prevent. Hosts create one Registry per engine and key
// every call by an explicitly propagated scope ID.
type Registry struct {
	mu     sync.RWMutex
	scopes map[ID]*Scope
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scopes: make(map[ID]*Scope)}
}

// Open creates and registers a new scope for id.
// Returns DuplicateScopeError if a scope is already registered for id.
func (r *Registry) Open(id ID) (*Scope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.scopes[id]; exists {
		return nil, &DuplicateScopeError{ID: id}
	}

	s := newScope(id)
	r.scopes[id] = s
	return s, nil
}

// Get returns the registered scope for id.
// Returns NoActiveScopeError if none is registered.
func (r *Registry) Get(id ID) (*Scope, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.scopes[id]
	if !exists {
		return nil, &NoActiveScopeError{ID: id}
	}
	return s, nil
}

// Close transitions the scope for id to Closed and removes it.
//
// The scope must be in the Evaluated state; closing an Open or Flushed
// scope means the orchestrator skipped the flush or evaluate step, which
// is a programming error and fails with a StateError. The scope stays
// registered on failure so the defect is observable.
func (r *Registry) Close(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.scopes[id]
	if !exists {
		return &NoActiveScopeError{ID: id}
	}

	if err := s.markClosed(); err != nil {
		return err
	}

	delete(r.scopes, id)
	return nil
}

// Abort force-closes and removes the scope for id regardless of state.
//
// Used on the failure path: when the test body itself errored, or flush
// failed, evaluation is skipped but the scope must still be released so a
// failing test never leaks registry entries. Aborting an unknown id is a
// no-op.
func (r *Registry) Abort(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.scopes[id]
	if !exists {
		return
	}

	s.discard()
	delete(r.scopes, id)
}

// Len returns the number of currently registered scopes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scopes)
}
