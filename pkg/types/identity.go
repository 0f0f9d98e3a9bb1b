package types

import "github.com/google/uuid"

// Identity names a principal known to the hosting environment. The
// registry never interprets the value; it only compares identities for
// equality. The zero value is reserved and rejected wherever an owner,
// administrator, or caller is required.
type Identity string

// IsZero reports whether the identity is the reserved zero value.
func (id Identity) IsZero() bool {
	return id == ""
}

// NewIdentity mints a fresh UUID v7 identity for hosts that have no
// external identity provider of their own.
func NewIdentity() Identity {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return Identity(uuid.New().String())
	}
	return Identity(id.String())
}
