package writebehind

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sqltally/internal/scope"
)

// Store buffers writes per scope and materializes them on flush.
// Implements engine.Flusher.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	pending map[scope.ID][]statement
}

type statement struct {
	query string
	args  []any
}

// Open creates or opens a SQLite database at the given path and wraps it
// in a write-behind store.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return New(db), nil
}

// New wraps an existing database handle. Use this to compose with the
// recording driver so that flushed writes flow through the interception
// hook; the caller retains ownership of pragmas and schema setup.
func New(db *sql.DB) *Store {
	return &Store{
		db:      db,
		pending: make(map[scope.ID][]statement),
	}
}

// Close closes the underlying database.
// Buffered writes that were never flushed are dropped.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct access.
// Statements executed on it bypass the write-behind buffer.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Exec buffers a write for the scope carried by ctx. Nothing reaches the
// database until FlushPendingWrites runs for that scope.
//
// Returns NoActiveScopeError when ctx carries no scope ID: a buffered
// write with no owning scope could never be flushed or counted.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	id, ok := scope.FromContext(ctx)
	if !ok {
		return &scope.NoActiveScopeError{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = append(s.pending[id], statement{query: query, args: args})
	return nil
}

// Query passes a read through to the database immediately.
// Callers are responsible for closing the returned rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// QueryRow passes a single-row read through to the database immediately.
func (s *Store) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// FlushPendingWrites executes the calling scope's buffered writes in the
// order they were issued, then clears the buffer. Other scopes' buffers
// are untouched.
//
// The writes execute through the store's database handle; when that handle
// was opened through the recording driver, flush-induced statements are
// captured like any others.
func (s *Store) FlushPendingWrites(ctx context.Context) error {
	id, ok := scope.FromContext(ctx)
	if !ok {
		return &scope.NoActiveScopeError{}
	}

	s.mu.Lock()
	buffered := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	for i, stmt := range buffered {
		if _, err := s.db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("flush write %d of %d: %w", i+1, len(buffered), err)
		}
	}
	return nil
}

// Pending returns the number of buffered writes for id.
func (s *Store) Pending(id scope.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[id])
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
