package registry

import "github.com/ledgerforge/custos/pkg/types"

// Authorization decisions. These are pure functions over their inputs:
// no state is read beyond the arguments, and nothing is cached, so a
// decision always reflects the registry at the moment of the call
// (ownership may have transferred since the last one).
// Implements: prd001-registry-core R6 (guard evaluation).

// isListed reports whether id appears in the identity list.
func isListed(list []types.Identity, id types.Identity) bool {
	for _, m := range list {
		if m == id {
			return true
		}
	}
	return false
}

// canManageAsset reports whether the caller may mutate an asset:
// administrators and the current owner only.
func canManageAsset(admin bool, owner, caller types.Identity) bool {
	return admin || caller == owner
}

// canAccessEvent reports whether the caller may touch an event guarded
// by the given access list: administrators, the asset owner, and list
// members. Used both for reading a stored event and for recording a
// new one, where access is the list supplied with the call itself.
func canAccessEvent(admin bool, owner, caller types.Identity, access types.AccessList) bool {
	if admin || caller == owner {
		return true
	}
	return access.Contains(caller)
}
