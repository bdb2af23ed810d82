package scope

import (
	"errors"
	"fmt"
)

// NoActiveScopeError reports a lookup for a scope ID with no open scope.
//
// This is a wiring defect, not a test failure: a statement was captured (or
// an orchestration step ran) in an execution context that never opened a
// scope, or whose scope was already torn down. It is always fatal.
type NoActiveScopeError struct {
	ID ID
}

func (e *NoActiveScopeError) Error() string {
	if e.ID == "" {
		return "no active scope: context carries no scope ID"
	}
	return fmt.Sprintf("no active scope for %q", e.ID)
}

// DuplicateScopeError reports a second Open for an ID that already has an
// open scope. Indicates nested or re-entrant test invocation.
type DuplicateScopeError struct {
	ID ID
}

func (e *DuplicateScopeError) Error() string {
	return fmt.Sprintf("scope %q is already open", e.ID)
}

// StateError reports an operation attempted in the wrong lifecycle state,
// e.g. closing a scope that was never flushed or evaluated.
type StateError struct {
	ID    ID
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("scope %q: cannot %s in state %s", e.ID, e.Op, e.State)
}

// IsNoActiveScope reports whether err is a NoActiveScopeError.
// Uses errors.As to handle wrapped errors.
func IsNoActiveScope(err error) bool {
	var nas *NoActiveScopeError
	return errors.As(err, &nas)
}

// IsDuplicateScope reports whether err is a DuplicateScopeError.
func IsDuplicateScope(err error) bool {
	var dup *DuplicateScopeError
	return errors.As(err, &dup)
}
