package registry

import (
	"github.com/ledgerforge/custos/pkg/types"
)

// Registry holds all registry state: the administrator set, the asset
// records, and each asset's event ledger. The asset slice is dense;
// the slice index is the asset id.
type Registry struct {
	admins []types.Identity
	assets []*assetRecord
}

// assetRecord pairs an asset with its append-only event ledger.
type assetRecord struct {
	asset  types.Asset
	events []*types.TrackingEvent
}

// New creates a registry with the given administrator set. The set is
// fixed for the life of the registry; there is no add or remove path.
// Returns a validation error if the list is empty, exceeds
// types.MaxAdministrators, or contains a zero identity. Duplicate
// entries are harmless (prd001-registry-core R1).
func New(admins []types.Identity) (*Registry, error) {
	if len(admins) == 0 {
		return nil, types.ErrNoAdministrators
	}
	if len(admins) > types.MaxAdministrators {
		return nil, types.ErrTooManyAdministrators
	}
	for _, id := range admins {
		if id.IsZero() {
			return nil, types.ErrZeroAdministrator
		}
	}
	stored := make([]types.Identity, len(admins))
	copy(stored, admins)
	return &Registry{admins: stored}, nil
}

// IsAdministrator reports whether the identity is in the administrator
// set. Unrestricted; linear scan is fine at the set's size bound.
func (r *Registry) IsAdministrator(id types.Identity) bool {
	return isListed(r.admins, id)
}

// Administrators returns a copy of the administrator set in its
// original order.
func (r *Registry) Administrators() []types.Identity {
	cp := make([]types.Identity, len(r.admins))
	copy(cp, r.admins)
	return cp
}

// AssetCount returns the number of assets ever registered. Counts are
// monotonically non-decreasing; assets are never deleted.
func (r *Registry) AssetCount() int64 {
	return int64(len(r.assets))
}

// EventCount returns the number of events on the asset's ledger.
func (r *Registry) EventCount(assetID int64) (int64, error) {
	rec, err := r.lookup(assetID)
	if err != nil {
		return 0, err
	}
	return int64(len(rec.events)), nil
}

// lookup returns the record for the asset id, or ErrAssetNotFound.
func (r *Registry) lookup(assetID int64) (*assetRecord, error) {
	if assetID < 0 || assetID >= int64(len(r.assets)) {
		return nil, types.ErrAssetNotFound
	}
	return r.assets[assetID], nil
}
