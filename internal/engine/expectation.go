package engine

import (
	"fmt"

	"github.com/roach88/sqltally/internal/sqlkind"
)

// Expectation declares how many statements of each kind a test may emit.
//
// Kinds absent from the map default to zero: an undeclared kind with any
// captured statements is a mismatch. That default is what catches
// side-channel statements a test never knew it was issuing.
type Expectation map[sqlkind.Kind]int

// Expected returns the declared count for kind, defaulting to zero.
func (e Expectation) Expected(kind sqlkind.Kind) int {
	return e[kind]
}

// Validate rejects negative counts and unknown kinds.
func (e Expectation) Validate() error {
	known := make(map[sqlkind.Kind]bool, len(sqlkind.Kinds))
	for _, k := range sqlkind.Kinds {
		known[k] = true
	}

	for kind, count := range e {
		if !known[kind] {
			return fmt.Errorf("expectation references unknown kind %q", kind)
		}
		if count < 0 {
			return fmt.Errorf("expectation for %s is negative (%d)", kind, count)
		}
	}
	return nil
}
