package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
)

// Mismatch is one kind whose actual count differs from its expectation.
type Mismatch struct {
	Expected int
	Actual   int
}

// Result is the outcome of evaluating an Expectation against a scope.
type Result struct {
	// Mismatches holds every kind whose counts differ. Empty on success.
	Mismatches map[sqlkind.Kind]Mismatch

	// Passed is true when Mismatches is empty.
	Passed bool

	// DiagnosticText is populated only when Passed is false. For each
	// mismatched kind it names the kind, the expected and actual counts,
	// and every captured statement of that kind in capture order.
	DiagnosticText string
}

// Evaluate compares the declared expectation against the statements
// captured in s, transitioning the scope Flushed -> Evaluated.
//
// Every kind is checked, declared or not; undeclared kinds must have zero
// occurrences. Returns a StateError when s has not been flushed: producing
// counts from an unflushed scope would under-report deferred writes.
func Evaluate(s *scope.Scope, expectation Expectation) (*Result, error) {
	if err := expectation.Validate(); err != nil {
		return nil, err
	}
	if err := s.MarkEvaluated(); err != nil {
		return nil, err
	}

	records := s.Records()

	actual := make(map[sqlkind.Kind]int, len(sqlkind.Kinds))
	for _, rec := range records {
		actual[rec.Kind]++
	}

	result := &Result{Mismatches: make(map[sqlkind.Kind]Mismatch)}
	for _, kind := range sqlkind.Kinds {
		expected := expectation.Expected(kind)
		if actual[kind] != expected {
			result.Mismatches[kind] = Mismatch{Expected: expected, Actual: actual[kind]}
		}
	}

	result.Passed = len(result.Mismatches) == 0
	if !result.Passed {
		result.DiagnosticText = formatDiagnostic(result.Mismatches, records)
	}
	return result, nil
}

// formatDiagnostic renders one block per mismatched kind, in the stable
// kind order, enumerating every captured statement of that kind in capture
// order. Completeness and ordering are a hard contract here: the listing is
// how a developer finds the N+1 loop that emitted the extra statements.
func formatDiagnostic(mismatches map[sqlkind.Kind]Mismatch, records []scope.Record) string {
	var b strings.Builder

	for _, kind := range sqlkind.Kinds {
		m, ok := mismatches[kind]
		if !ok {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Expected %d %s but got %d:", m.Expected, kind, m.Actual)
		for _, rec := range records {
			if rec.Kind == kind {
				fmt.Fprintf(&b, "\n     => '%s'", rec.RawText)
			}
		}
	}

	return b.String()
}
