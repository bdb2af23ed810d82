// Package sqldriver wraps a database/sql driver so that every statement is
// recorded by the engine immediately before it is sent for execution.
//
// The wrapper is the interception hook for database/sql hosts: register it
// once per engine, open the database through the registered name, and every
// ExecContext/QueryContext (direct or through a prepared statement) flows
// into the recorder with the exact text the wrapped driver will execute.
//
//	eng := engine.New(engine.NopFlusher, nil)
//	sqldriver.Register("sqlite3-tally", &sqlite3.SQLiteDriver{}, eng.Recorder())
//	db, err := sql.Open("sqlite3-tally", ":memory:")
//
// Capture failures are not absorbed: executing a statement in a context
// with no open scope returns the scope error to the caller instead of the
// query result.
package sqldriver
