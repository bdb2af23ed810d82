package engine

import (
	"errors"
	"fmt"
)

// MismatchError is the failure signal for a test whose statement counts
// differ from its expectation. It is the one error class a test runner
// should report as a test failure rather than a harness failure; its
// message is the full diagnostic.
type MismatchError struct {
	ScopeID string
	Result  *Result
}

func (e *MismatchError) Error() string {
	return e.Result.DiagnosticText
}

// FlushError reports that the host's flush collaborator failed. The
// underlying error is propagated unchanged; evaluation is skipped because
// the counts are unreliable.
type FlushError struct {
	ScopeID string
	Err     error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush failed for scope %q: %v", e.ScopeID, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// IsMismatch reports whether err is a MismatchError.
// Uses errors.As to handle wrapped errors.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

// IsFlushError reports whether err is a FlushError.
func IsFlushError(err error) bool {
	var fe *FlushError
	return errors.As(err, &fe)
}
