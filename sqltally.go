// Package sqltally asserts on the SQL statements a test emits.
//
// Every statement executed during a test is captured, classified by its
// leading verb (SELECT, INSERT, UPDATE, DELETE or OTHER), and counted.
// After the test body returns, pending writes are flushed and the counts
// are compared against the declared expectation; a mismatch fails the
// test with a diagnostic enumerating every offending statement in
// execution order. Kinds left out of the expectation must occur zero
// times, which is what catches the side-channel statement a test never
// knew it was issuing.
//
// Typical wiring for a database/sql host:
//
//	eng := sqltally.New(sqltally.NopFlusher, nil)
//	eng.RegisterDriver("sqlite3-counted", &sqlite3.SQLiteDriver{})
//	db, _ := sql.Open("sqlite3-counted", ":memory:")
//
//	func TestCheckout(t *testing.T) {
//		eng.Check(t, sqltally.Expectation{sqltally.Insert: 2}, func(ctx context.Context) error {
//			return checkout(ctx, db, cartID) // all db calls must use ctx
//		})
//	}
//
// The context passed to the body carries the test's scope identity; every
// capture site resolves its scope from context, never from shared state,
// so parallel tests cannot contaminate each other's counts.
package sqltally

import (
	"context"
	"database/sql/driver"
	"log/slog"
	"testing"

	"github.com/roach88/sqltally/internal/engine"
	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqldriver"
	"github.com/roach88/sqltally/internal/sqlkind"
)

// Kind is a statement's operation classification.
type Kind = sqlkind.Kind

// The five operation kinds.
const (
	Select = sqlkind.Select
	Insert = sqlkind.Insert
	Update = sqlkind.Update
	Delete = sqlkind.Delete
	Other  = sqlkind.Other
)

// Expectation declares expected statement counts per kind.
// Absent kinds must occur exactly zero times.
type Expectation map[Kind]int

// Flusher materializes a persistence layer's deferred writes before
// counts are evaluated.
type Flusher = engine.Flusher

// FlusherFunc adapts a function to the Flusher interface.
type FlusherFunc = engine.FlusherFunc

// NopFlusher is for hosts whose writes are never deferred.
var NopFlusher = engine.NopFlusher

// Engine captures and asserts statement counts for one test suite.
type Engine struct {
	inner *engine.Engine
}

// New creates an engine. flusher may be NopFlusher; a nil logger
// suppresses logging.
func New(flusher Flusher, logger *slog.Logger) *Engine {
	return &Engine{inner: engine.New(flusher, logger)}
}

// RegisterDriver registers a recording wrapper around parent with
// database/sql under name. Databases opened through name feed every
// statement into this engine.
func (e *Engine) RegisterDriver(name string, parent driver.Driver) {
	sqldriver.Register(name, parent, e.inner.Recorder())
}

// Record is the manual interception hook for hosts not using
// database/sql: call it synchronously immediately before executing a
// statement, with the exact text that will execute.
func (e *Engine) Record(ctx context.Context, rawText string) error {
	return e.inner.Recorder().Record(ctx, rawText)
}

// Run executes body under statement counting with an explicit scope ID.
// See Check for the usual test-facing entry point.
//
// The returned error is a count-mismatch failure when IsMismatch reports
// true; anything else is a harness or wiring failure.
func (e *Engine) Run(ctx context.Context, scopeID string, expectation Expectation, body func(ctx context.Context) error) error {
	return e.inner.Run(ctx, scope.ID(scopeID), engine.Expectation(expectation), body)
}

// Check runs body under statement counting and fails tb on a count
// mismatch, using the test's name as the scope ID. Test names are unique
// across a run, including parallel subtests, which makes them a stable
// scope identity.
//
// A mismatch fails with the full diagnostic; any other error (the body's
// own failure, a flush failure, a wiring defect) fails with that error.
func (e *Engine) Check(tb testing.TB, expectation Expectation, body func(ctx context.Context) error) {
	tb.Helper()

	err := e.Run(context.Background(), tb.Name(), expectation, body)
	switch {
	case err == nil:
	case IsMismatch(err):
		tb.Fatal(err.Error())
	default:
		tb.Fatalf("sqltally: %v", err)
	}
}

// IsMismatch reports whether err is a count-mismatch test failure, as
// opposed to a harness or wiring failure.
func IsMismatch(err error) bool {
	return engine.IsMismatch(err)
}

// IsNoActiveScope reports whether err means a statement was captured in
// an execution context with no open scope, which is a wiring defect.
func IsNoActiveScope(err error) bool {
	return scope.IsNoActiveScope(err)
}
