package harness

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/sqltally/internal/engine"
	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
)

// TraceEvent is one captured statement in a scenario run.
type TraceEvent struct {
	// Phase is "body" for statements replayed during the test body and
	// "flush" for deferred statements materialized by the flush step.
	Phase string `json:"phase"`

	// Seq is the capture order across the whole run.
	Seq int `json:"seq"`

	// Kind is the statement's operation classification.
	Kind string `json:"kind"`

	// Statement is the raw statement text.
	Statement string `json:"statement"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Name    string `json:"name"`
	ScopeID string `json:"scope_id"`

	// Pass is true when the captured counts matched the expectation.
	Pass bool `json:"pass"`

	// Diagnostic holds the engine's mismatch diagnostic when Pass is
	// false.
	Diagnostic string `json:"diagnostic,omitempty"`

	// Trace lists every captured statement in order.
	Trace []TraceEvent `json:"trace"`
}

// Run executes a scenario through the engine's full lifecycle.
//
// The scenario's statements are replayed through the recorder as the test
// body; deferred statements are replayed inside the flush step, modeling a
// write-behind layer. A count mismatch produces a failing Result; any
// other error (bad expectation, wiring defect) is returned as an error.
//
// Scenarios without a pinned scope_id get a fresh UUIDv7 scope ID per run.
// Callers that need reproducible traces use RunWith with a fixed generator.
func Run(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	return RunWith(scenario, logger, scope.UUIDGenerator{})
}

// RunWith is Run with an injected scope ID generator, consulted only when
// the scenario does not pin a scope_id.
func RunWith(scenario *Scenario, logger *slog.Logger, gen scope.IDGenerator) (*Result, error) {
	expectation, err := scenario.Expectation()
	if err != nil {
		return nil, err
	}

	id := scenario.EffectiveScopeID(gen)
	result := &Result{
		Name:    scenario.Name,
		ScopeID: string(id),
		Trace:   []TraceEvent{},
	}

	var eng *engine.Engine
	flusher := engine.FlusherFunc(func(ctx context.Context) error {
		for _, stmt := range scenario.Deferred {
			if err := eng.Recorder().Record(ctx, stmt); err != nil {
				return err
			}
			result.addTrace("flush", stmt)
		}
		return nil
	})
	eng = engine.New(flusher, logger)

	runErr := eng.Run(context.Background(), id, expectation, func(ctx context.Context) error {
		for _, stmt := range scenario.Statements {
			if err := eng.Recorder().Record(ctx, stmt); err != nil {
				return err
			}
			result.addTrace("body", stmt)
		}
		return nil
	})

	var mismatch *engine.MismatchError
	switch {
	case runErr == nil:
		result.Pass = true
	case errors.As(runErr, &mismatch):
		result.Pass = false
		result.Diagnostic = mismatch.Result.DiagnosticText
	default:
		return nil, runErr
	}

	return result, nil
}

func (r *Result) addTrace(phase, stmt string) {
	r.Trace = append(r.Trace, TraceEvent{
		Phase:     phase,
		Seq:       len(r.Trace),
		Kind:      string(sqlkind.Classify(stmt)),
		Statement: stmt,
	})
}
