package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityIsZero(t *testing.T) {
	assert.True(t, Identity("").IsZero())
	assert.False(t, Identity("alice").IsZero())
}

func TestNewIdentity(t *testing.T) {
	seen := make(map[Identity]bool)
	for i := 0; i < 100; i++ {
		id := NewIdentity()
		assert.False(t, id.IsZero())
		assert.False(t, seen[id], "identities must not repeat")
		seen[id] = true
	}
}
