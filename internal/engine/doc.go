// Package engine orchestrates SQL statement capture and per-test count
// assertions.
//
// The engine observes every statement a test emits (via Recorder, typically
// wired through an intercepting database/sql driver), flushes the host's
// deferred writes, and then compares per-kind statement counts against the
// test's declared Expectation. A count mismatch surfaces as a MismatchError
// whose message enumerates every offending statement in capture order; that
// is the primary debugging aid for N+1 query regressions.
//
// Lifecycle per test invocation:
//
//	open scope -> run body -> flush pending writes -> evaluate -> close scope
//
// Flush always precedes evaluation: write-behind persistence layers defer
// DML until a synchronization point, and counting before that point would
// under-report writes.
package engine
