package sqldriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/roach88/sqltally/internal/engine"
)

// Driver wraps a parent driver and records every statement before
// forwarding it.
type Driver struct {
	parent   driver.Driver
	recorder *engine.Recorder
}

// Wrap returns a recording driver around parent.
func Wrap(parent driver.Driver, recorder *engine.Recorder) *Driver {
	return &Driver{parent: parent, recorder: recorder}
}

// Register wraps parent and registers it with database/sql under name.
// The name must be unique per process; one registration per engine.
func Register(name string, parent driver.Driver, recorder *engine.Recorder) {
	sql.Register(name, Wrap(parent, recorder))
}

// Open implements driver.Driver.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	parent, err := d.parent.Open(dsn)
	if err != nil {
		return nil, err
	}
	return &conn{parent: parent, recorder: d.recorder}, nil
}

// conn intercepts statement execution on one connection.
//
// The context-less driver.Conn methods are implemented only to satisfy the
// interface; database/sql prefers the Context variants, and a capture
// without a context cannot resolve a scope anyway.
type conn struct {
	parent   driver.Conn
	recorder *engine.Recorder
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	parent, err := c.parent.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{parent: parent, query: query, recorder: c.recorder}, nil
}

func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var parent driver.Stmt
	var err error

	if pc, ok := c.parent.(driver.ConnPrepareContext); ok {
		parent, err = pc.PrepareContext(ctx, query)
	} else {
		parent, err = c.parent.Prepare(query)
	}
	if err != nil {
		return nil, err
	}
	// Recording happens at execution time, not prepare time: a prepared
	// statement may run zero or many times.
	return &stmt{parent: parent, query: query, recorder: c.recorder}, nil
}

func (c *conn) Close() error {
	return c.parent.Close()
}

func (c *conn) Begin() (driver.Tx, error) {
	return c.parent.Begin()
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if bt, ok := c.parent.(driver.ConnBeginTx); ok {
		return bt.BeginTx(ctx, opts)
	}
	return c.parent.Begin()
}

// ExecContext records query and forwards to the parent. Returns ErrSkip
// when the parent lacks ExecerContext so database/sql falls back to the
// prepared-statement path, which records instead.
func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := c.parent.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	if err := c.recorder.Record(ctx, query); err != nil {
		return nil, err
	}
	return execer.ExecContext(ctx, query, args)
}

// QueryContext records query and forwards to the parent. Same ErrSkip
// contract as ExecContext.
func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := c.parent.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	if err := c.recorder.Record(ctx, query); err != nil {
		return nil, err
	}
	return queryer.QueryContext(ctx, query, args)
}

func (c *conn) CheckNamedValue(nv *driver.NamedValue) error {
	if checker, ok := c.parent.(driver.NamedValueChecker); ok {
		return checker.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

func (c *conn) Ping(ctx context.Context) error {
	if pinger, ok := c.parent.(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (c *conn) ResetSession(ctx context.Context) error {
	if rs, ok := c.parent.(driver.SessionResetter); ok {
		return rs.ResetSession(ctx)
	}
	return nil
}

func (c *conn) IsValid() bool {
	if v, ok := c.parent.(driver.Validator); ok {
		return v.IsValid()
	}
	return true
}

// stmt intercepts execution of a prepared statement. The statement text is
// recorded on every execution, matching the capture contract: one record
// per statement sent to the database.
type stmt struct {
	parent   driver.Stmt
	query    string
	recorder *engine.Recorder
}

func (s *stmt) Close() error {
	return s.parent.Close()
}

func (s *stmt) NumInput() int {
	return s.parent.NumInput()
}

// Exec satisfies driver.Stmt. database/sql only reaches it when the
// context variant is missing, which it never is here; a direct call has no
// context and therefore no scope, and fails accordingly.
func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	if err := s.recorder.Record(context.Background(), s.query); err != nil {
		return nil, err
	}
	return s.parent.Exec(args)
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	if err := s.recorder.Record(context.Background(), s.query); err != nil {
		return nil, err
	}
	return s.parent.Query(args)
}

func (s *stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if err := s.recorder.Record(ctx, s.query); err != nil {
		return nil, err
	}
	if ec, ok := s.parent.(driver.StmtExecContext); ok {
		return ec.ExecContext(ctx, args)
	}

	values, err := namedToValues(args)
	if err != nil {
		return nil, err
	}
	return s.parent.Exec(values)
}

func (s *stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if err := s.recorder.Record(ctx, s.query); err != nil {
		return nil, err
	}
	if qc, ok := s.parent.(driver.StmtQueryContext); ok {
		return qc.QueryContext(ctx, args)
	}

	values, err := namedToValues(args)
	if err != nil {
		return nil, err
	}
	return s.parent.Query(values)
}

func (s *stmt) CheckNamedValue(nv *driver.NamedValue) error {
	if checker, ok := s.parent.(driver.NamedValueChecker); ok {
		return checker.CheckNamedValue(nv)
	}
	return driver.ErrSkip
}

// namedToValues converts NamedValue args for the legacy Exec/Query
// signatures. Named (as opposed to positional) parameters cannot be
// expressed there.
func namedToValues(args []driver.NamedValue) ([]driver.Value, error) {
	values := make([]driver.Value, len(args))
	for i, nv := range args {
		if nv.Name != "" {
			return nil, errors.New("sqldriver: driver does not support named parameters")
		}
		values[i] = nv.Value
	}
	return values, nil
}
