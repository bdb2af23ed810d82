package engine

import (
	"context"
	"errors"

	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
)

// Recorder captures SQL statements into the open scope of the calling
// execution context.
//
// The host persistence layer must call Record synchronously immediately
// before each statement is sent for execution, passing the exact text that
// will execute. The intercepting driver in internal/sqldriver does this for
// database/sql hosts.
type Recorder struct {
	registry *scope.Registry
}

// NewRecorder creates a recorder backed by registry.
func NewRecorder(registry *scope.Registry) *Recorder {
	return &Recorder{registry: registry}
}

// Record classifies rawText and appends it to the scope identified by ctx.
//
// Returns NoActiveScopeError when ctx carries no scope ID, when the ID is
// unknown to the registry, or when the scope exists but is past Open (a
// capture arriving after flush started). From the capturing host's view
// these are the same condition: no open scope to record into. A missed
// capture would defeat the engine's purpose, so this is never silently
// absorbed; callers must propagate it.
func (r *Recorder) Record(ctx context.Context, rawText string) error {
	id, ok := scope.FromContext(ctx)
	if !ok {
		return &scope.NoActiveScopeError{}
	}

	s, err := r.registry.Get(id)
	if err != nil {
		return err
	}

	if _, err := s.Append(rawText, sqlkind.Classify(rawText)); err != nil {
		var stateErr *scope.StateError
		if errors.As(err, &stateErr) {
			return &scope.NoActiveScopeError{ID: id}
		}
		return err
	}
	return nil
}
