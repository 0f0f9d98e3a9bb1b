package types

import "sort"

// AccessList is the set of identities permitted to read a tracking
// event's details. It is fixed when the event is recorded and never
// exposed in full by the registry; callers can only test membership.
// Implements: prd001-registry-core R5 (per-event grants).
type AccessList map[Identity]bool

// NewAccessList builds an AccessList from a slice of identities.
// Duplicates collapse; zero identities are ignored. Returns
// ErrEmptyAccessList if no usable identity remains.
func NewAccessList(identities []Identity) (AccessList, error) {
	list := make(AccessList, len(identities))
	for _, id := range identities {
		if id.IsZero() {
			continue
		}
		list[id] = true
	}
	if len(list) == 0 {
		return nil, ErrEmptyAccessList
	}
	return list, nil
}

// Contains reports whether the identity is a member of the list.
func (a AccessList) Contains(id Identity) bool {
	return a[id]
}

// Members returns the identities in the list in sorted order. Used by
// the storage backend for persistence and audit export; the registry
// itself never hands the full list to callers.
func (a AccessList) Members() []Identity {
	members := make([]Identity, 0, len(a))
	for id := range a {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	return members
}

// Clone returns an independent copy of the list.
func (a AccessList) Clone() AccessList {
	cp := make(AccessList, len(a))
	for id := range a {
		cp[id] = true
	}
	return cp
}
