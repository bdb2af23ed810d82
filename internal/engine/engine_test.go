package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqltally/internal/scope"
	"github.com/roach88/sqltally/internal/sqlkind"
	"github.com/roach88/sqltally/internal/testutil"
)

func TestEngine_RunPasses(t *testing.T) {
	flusher := &testutil.CapturingFlusher{}
	eng := New(flusher, nil)

	err := eng.Run(context.Background(), "t1", Expectation{sqlkind.Select: 2}, func(ctx context.Context) error {
		require.NoError(t, eng.Recorder().Record(ctx, "SELECT 1"))
		require.NoError(t, eng.Recorder().Record(ctx, "SELECT 2"))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, flusher.Calls(), "flush runs exactly once per invocation")
	assert.Equal(t, 0, eng.Registry().Len(), "scope must be released")
}

func TestEngine_RunMismatch(t *testing.T) {
	eng := New(nil, nil)

	err := eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error {
		return eng.Recorder().Record(ctx, "DELETE FROM t")
	})

	require.Error(t, err)
	require.True(t, IsMismatch(err))

	var me *MismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "t1", me.ScopeID)
	assert.Equal(t, "Expected 0 DELETE but got 1:\n     => 'DELETE FROM t'", err.Error())
	assert.Equal(t, 0, eng.Registry().Len(), "failed evaluation must still release the scope")
}

func TestEngine_BodyErrorSkipsEvaluation(t *testing.T) {
	flusher := &testutil.CapturingFlusher{}
	eng := New(flusher, nil)

	bodyErr := errors.New("test body exploded")
	err := eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error {
		// This DELETE would mismatch the empty expectation, but the body
		// error takes precedence: no double failure reporting.
		_ = eng.Recorder().Record(ctx, "DELETE FROM t")
		return bodyErr
	})

	assert.ErrorIs(t, err, bodyErr)
	assert.False(t, IsMismatch(err))
	assert.Equal(t, 0, flusher.Calls(), "flush is skipped when the body failed")
	assert.Equal(t, 0, eng.Registry().Len())
}

func TestEngine_FlushFailureSkipsEvaluation(t *testing.T) {
	flushErr := errors.New("connection lost")
	eng := New(&testutil.CapturingFlusher{Err: flushErr}, nil)

	err := eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error {
		// Mismatching statement; must not be reported because counts are
		// unreliable after a failed flush.
		return eng.Recorder().Record(ctx, "INSERT INTO t VALUES (1)")
	})

	require.Error(t, err)
	assert.True(t, IsFlushError(err))
	assert.ErrorIs(t, err, flushErr, "the collaborator's error is propagated unchanged")
	assert.False(t, IsMismatch(err))
	assert.Equal(t, 0, eng.Registry().Len())
}

func TestEngine_FlushInducedStatementsAreCounted(t *testing.T) {
	var eng *Engine
	flusher := &testutil.CapturingFlusher{
		OnFlush: func(ctx context.Context) error {
			// A write-behind layer materializing its buffer at flush time.
			return eng.Recorder().Record(ctx, "INSERT INTO t VALUES (1)")
		},
	}
	eng = New(flusher, nil)

	err := eng.Run(context.Background(), "t1", Expectation{sqlkind.Insert: 1}, func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestEngine_DuplicateScopeID(t *testing.T) {
	eng := New(nil, nil)

	err := eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error {
		return eng.Run(ctx, "t1", Expectation{}, func(ctx context.Context) error {
			return nil
		})
	})

	require.Error(t, err)
	assert.True(t, scope.IsDuplicateScope(err))
}

func TestEngine_RecordOutsideRunFails(t *testing.T) {
	eng := New(nil, nil)

	err := eng.Recorder().Record(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.True(t, scope.IsNoActiveScope(err))
}

func TestEngine_ScopeReleasedOnPanic(t *testing.T) {
	eng := New(nil, nil)

	assert.Panics(t, func() {
		_ = eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error {
			panic("body panicked")
		})
	})
	assert.Equal(t, 0, eng.Registry().Len(), "panic must not leak the scope")

	// The same ID is usable again afterwards.
	err := eng.Run(context.Background(), "t1", Expectation{}, func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

// Parallel invocations with distinct scope IDs must evaluate independently:
// statements captured under one scope never appear in another's result.
func TestEngine_ConcurrentRunsAreIsolated(t *testing.T) {
	eng := New(nil, nil)

	const runs = 16
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			id := scope.ID(fmt.Sprintf("parallel-%d", i))
			// Each run emits i+1 selects and declares exactly that many.
			errs[i] = eng.Run(context.Background(), id, Expectation{sqlkind.Select: i + 1}, func(ctx context.Context) error {
				for j := 0; j <= i; j++ {
					if err := eng.Recorder().Record(ctx, fmt.Sprintf("SELECT %d FROM t%d", j, i)); err != nil {
						return err
					}
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "run %d saw cross-scope contamination", i)
	}
	assert.Equal(t, 0, eng.Registry().Len())
}
