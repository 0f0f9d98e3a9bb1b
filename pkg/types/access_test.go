package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessList(t *testing.T) {
	tests := []struct {
		name        string
		identities  []Identity
		wantErr     error
		wantMembers []Identity
	}{
		{
			name:        "single member",
			identities:  []Identity{"carol"},
			wantMembers: []Identity{"carol"},
		},
		{
			name:        "duplicates collapse",
			identities:  []Identity{"carol", "carol", "bob"},
			wantMembers: []Identity{"bob", "carol"},
		},
		{
			name:        "zero identities ignored",
			identities:  []Identity{"", "carol", ""},
			wantMembers: []Identity{"carol"},
		},
		{
			name:       "empty list rejected",
			identities: nil,
			wantErr:    ErrEmptyAccessList,
		},
		{
			name:       "all-zero list rejected",
			identities: []Identity{"", ""},
			wantErr:    ErrEmptyAccessList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := NewAccessList(tt.identities)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMembers, list.Members())
		})
	}
}

func TestAccessListContains(t *testing.T) {
	list, err := NewAccessList([]Identity{"carol", "bob"})
	require.NoError(t, err)

	assert.True(t, list.Contains("carol"))
	assert.True(t, list.Contains("bob"))
	assert.False(t, list.Contains("mallory"))
	assert.False(t, list.Contains(""))
}

func TestAccessListClone(t *testing.T) {
	list, err := NewAccessList([]Identity{"carol"})
	require.NoError(t, err)

	cp := list.Clone()
	cp["bob"] = true

	assert.False(t, list.Contains("bob"), "clone must be independent")
	assert.True(t, cp.Contains("carol"))
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrZeroOwner, ErrValidation))
	assert.True(t, errors.Is(ErrKeyValueMismatch, ErrValidation))
	assert.True(t, errors.Is(ErrCounterOverflow, ErrValidation))
	assert.True(t, errors.Is(ErrAssetNotFound, ErrNotFound))
	assert.True(t, errors.Is(ErrEventNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrAssetNotFound, ErrValidation))
	assert.False(t, errors.Is(ErrUnauthorized, ErrValidation))
}
