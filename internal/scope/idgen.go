package scope

import "github.com/google/uuid"

// IDGenerator produces scope IDs for runs where the host does not bring
// its own scope identity.
type IDGenerator interface {
	Generate() ID
}

// UUIDGenerator produces time-ordered UUIDv7 scope IDs. This is the
// production generator: consecutive runs of the same scenario get distinct
// IDs, so a leaked scope from one run can never collide with the next.
type UUIDGenerator struct{}

// Generate returns a fresh UUIDv7 scope ID.
func (UUIDGenerator) Generate() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}
