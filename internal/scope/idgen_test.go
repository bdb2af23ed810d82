package scope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Unique(t *testing.T) {
	g := UUIDGenerator{}
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		require.False(t, seen[id], "duplicate scope ID %s", id)
		seen[id] = true
	}
}

func TestUUIDGenerator_ValidUUID(t *testing.T) {
	id := UUIDGenerator{}.Generate()
	parsed, err := uuid.Parse(string(id))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
