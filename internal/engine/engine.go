package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/sqltally/internal/scope"
)

// Engine sequences the per-test lifecycle: open scope, run the test body,
// flush pending writes, evaluate counts, close the scope.
type Engine struct {
	registry *scope.Registry
	recorder *Recorder
	flusher  Flusher
	logger   *slog.Logger
}

// New creates an engine with its own registry.
//
// flusher is the host persistence layer's synchronization hook; use
// NopFlusher for write-through hosts. A nil logger suppresses logging.
func New(flusher Flusher, logger *slog.Logger) *Engine {
	if flusher == nil {
		flusher = NopFlusher
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	registry := scope.NewRegistry()
	return &Engine{
		registry: registry,
		recorder: NewRecorder(registry),
		flusher:  flusher,
		logger:   logger,
	}
}

// Recorder returns the engine's statement recorder, for wiring into the
// host's interception hook.
func (e *Engine) Recorder() *Recorder {
	return e.recorder
}

// Registry exposes the scope registry. Intended for tests and tooling;
// hosts normally interact only through Run and Recorder.
func (e *Engine) Registry() *scope.Registry {
	return e.registry
}

// Run executes one test invocation under statement counting.
//
// A scope is opened for id and injected into the context passed to body;
// every statement the body (or the flush) emits through the recorder is
// captured into that scope. After body returns, pending writes are flushed
// and the captured counts are evaluated against expectation.
//
// Error semantics:
//   - body returned an error: flush and evaluation are skipped (no double
//     failure reporting) and the body's error is returned unchanged.
//   - flush failed: evaluation is skipped, a FlushError is returned.
//   - counts mismatched: a MismatchError carrying the diagnostic text.
//   - wiring defects (duplicate scope, bad state transitions) surface as
//     scope package errors.
//
// The scope is released in every case; a failing test never leaks a
// registry entry.
func (e *Engine) Run(ctx context.Context, id scope.ID, expectation Expectation, body func(ctx context.Context) error) error {
	sc, err := e.registry.Open(id)
	if err != nil {
		return err
	}
	// Abort is a no-op once the scope has been closed normally, so this
	// also covers panics and runtime.Goexit escaping the body.
	defer e.registry.Abort(id)

	ctx = scope.NewContext(ctx, id)

	if err := body(ctx); err != nil {
		e.logger.Debug("test body failed, skipping evaluation", "scope", id, "error", err)
		return err
	}

	// Flush runs while the scope is still open: statements the flush
	// itself executes are captured like any others.
	if err := e.flusher.FlushPendingWrites(ctx); err != nil {
		return &FlushError{ScopeID: string(id), Err: err}
	}
	if err := sc.MarkFlushed(); err != nil {
		return err
	}

	result, err := Evaluate(sc, expectation)
	if err != nil {
		return err
	}

	if err := e.registry.Close(id); err != nil {
		return err
	}

	if !result.Passed {
		e.logger.Debug("expectation mismatch", "scope", id, "mismatches", len(result.Mismatches))
		return &MismatchError{ScopeID: string(id), Result: result}
	}

	e.logger.Debug("expectation met", "scope", id, "records", sc.Len())
	return nil
}
