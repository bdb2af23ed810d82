// Package testutil provides deterministic helpers for engine and harness
// tests: fixed scope ID generation and a capturing flush double.
package testutil

import "github.com/roach88/sqltally/internal/scope"

// FixedIDGenerator returns the same scope ID every time.
//
// This enables deterministic execution and golden snapshot comparison: the
// same scenario with the same FixedIDGenerator produces byte-identical
// traces. Production runs use scope.UUIDGenerator instead.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id scope.ID
}

var _ scope.IDGenerator = (*FixedIDGenerator)(nil)

// NewFixedIDGenerator creates a generator that always returns id.
// An empty id defaults to "test-scope-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-scope-default"
	}
	return &FixedIDGenerator{id: scope.ID(id)}
}

// Generate returns the fixed scope ID.
func (g *FixedIDGenerator) Generate() scope.ID {
	return g.id
}
