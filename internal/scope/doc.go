// Package scope provides the per-test isolation boundary for captured SQL
// statements.
//
// Each test invocation owns exactly one Scope, identified by an ID that is
// propagated through context.Context rather than held in package-level state.
// The Registry maps IDs to open scopes and guarantees that concurrent tests
// with distinct IDs never observe each other's records.
//
// A scope moves through a strict lifecycle:
//
//	Open -> Flushed -> Evaluated -> Closed
//
// Records may only be appended while the scope is Open. Skipping a state
// (for example closing a scope that was never flushed) is a harness bug and
// fails loudly rather than being papered over.
package scope
