package scope

import (
	"sync"

	"github.com/roach88/sqltally/internal/sqlkind"
)

// ID identifies one scope. It must be stable across the whole test
// invocation: the same value at capture time and at orchestration time.
type ID string

// State is the lifecycle position of a scope.
type State string

const (
	StateOpen      State = "open"
	StateFlushed   State = "flushed"
	StateEvaluated State = "evaluated"
	StateClosed    State = "closed"
)

// Record is one captured SQL execution. Immutable once appended.
type Record struct {
	// RawText is the statement exactly as the driver will execute it,
	// including any prepended comments.
	RawText string

	// Kind is the coarse operation classification of RawText.
	Kind sqlkind.Kind

	// Seq is the zero-based capture order within the owning scope.
	Seq int
}

// Scope holds the statements captured during one test invocation.
//
// All methods are safe for concurrent use; a scope linearizes its own
// mutations so that work fanned out across goroutines (sharing the same
// scope ID via context) still produces a single ordered record sequence.
type Scope struct {
	id ID

	mu      sync.Mutex
	state   State
	records []Record
}

func newScope(id ID) *Scope {
	return &Scope{id: id, state: StateOpen}
}

// ID returns the scope's identifier.
func (s *Scope) ID() ID {
	return s.id
}

// State returns the current lifecycle state.
func (s *Scope) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Append captures one statement. The record's Seq is assigned from the
// current record count, so sequences are exactly 0..n-1 in capture order.
//
// Returns a StateError if the scope is no longer Open: a capture arriving
// after flush started means the host wired the interception hook to the
// wrong scope, which must not be silently absorbed.
func (s *Scope) Append(rawText string, kind sqlkind.Kind) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return Record{}, &StateError{ID: s.id, Op: "append", State: s.state}
	}

	rec := Record{RawText: rawText, Kind: kind, Seq: len(s.records)}
	s.records = append(s.records, rec)
	return rec, nil
}

// Records returns a copy of the captured records in order.
func (s *Scope) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of captured records.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// MarkFlushed transitions Open -> Flushed.
func (s *Scope) MarkFlushed() error {
	return s.transition(StateOpen, StateFlushed, "flush")
}

// MarkEvaluated transitions Flushed -> Evaluated.
func (s *Scope) MarkEvaluated() error {
	return s.transition(StateFlushed, StateEvaluated, "evaluate")
}

// markClosed transitions Evaluated -> Closed. Only the Registry closes
// scopes, so this stays unexported.
func (s *Scope) markClosed() error {
	return s.transition(StateEvaluated, StateClosed, "close")
}

// discard force-closes the scope from any state. Used by Registry.Abort
// when the test body failed and evaluation is being skipped.
func (s *Scope) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
	s.records = nil
}

func (s *Scope) transition(from, to State, op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != from {
		return &StateError{ID: s.id, Op: op, State: s.state}
	}
	s.state = to
	return nil
}
