package registry

import (
	"math"

	"github.com/ledgerforge/custos/pkg/types"
)

// properties zips parallel key and value lists into a map, applying
// entries in order so the last write wins for a duplicate key. Returns
// mismatch if the lists differ in length.
func properties(keys, values []string, mismatch error) (map[string]string, error) {
	if len(keys) != len(values) {
		return nil, mismatch
	}
	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = values[i]
	}
	return m, nil
}

// AddAsset registers a new asset and returns its id. Only
// administrators may register assets. The owner must be non-zero and
// the property key and value lists must match in length; properties
// apply in order with last-write-wins for duplicate keys.
// Ids are assigned sequentially from 0 and never reused
// (prd001-registry-core R2.1).
func (r *Registry) AddAsset(caller types.Identity, name string, createDate int64, owner types.Identity, propKeys, propValues []string) (int64, error) {
	if !r.IsAdministrator(caller) {
		return 0, types.ErrUnauthorized
	}
	if owner.IsZero() {
		return 0, types.ErrZeroOwner
	}
	props, err := properties(propKeys, propValues, types.ErrKeyValueMismatch)
	if err != nil {
		return 0, err
	}
	if int64(len(r.assets)) == math.MaxInt64 {
		return 0, types.ErrCounterOverflow
	}

	id := int64(len(r.assets))
	r.assets = append(r.assets, &assetRecord{
		asset: types.Asset{
			AssetID:    id,
			Name:       name,
			CreateDate: createDate,
			Owner:      owner,
			Properties: props,
		},
	})
	return id, nil
}

// UpdateAssetProperties upserts properties on an existing asset. The
// caller must be the asset's owner or an administrator. There is no
// removal primitive; keys only ever gain or change values. A missing
// asset id fails with ErrAssetNotFound rather than materializing a
// default record (prd001-registry-core R2.3).
func (r *Registry) UpdateAssetProperties(caller types.Identity, assetID int64, propKeys, propValues []string) error {
	rec, err := r.lookup(assetID)
	if err != nil {
		return err
	}
	if !canManageAsset(r.IsAdministrator(caller), rec.asset.Owner, caller) {
		return types.ErrUnauthorized
	}
	if len(propKeys) != len(propValues) {
		return types.ErrKeyValueMismatch
	}
	for i, k := range propKeys {
		rec.asset.Properties[k] = propValues[i]
	}
	return nil
}

// UpdateAssetOwner transfers custody of an asset. The caller must be
// the current owner or an administrator; the new owner must be
// non-zero. The prior owner loses owner-level rights the moment the
// call returns (prd001-registry-core R2.4).
func (r *Registry) UpdateAssetOwner(caller types.Identity, assetID int64, newOwner types.Identity) error {
	rec, err := r.lookup(assetID)
	if err != nil {
		return err
	}
	if !canManageAsset(r.IsAdministrator(caller), rec.asset.Owner, caller) {
		return types.ErrUnauthorized
	}
	if newOwner.IsZero() {
		return types.ErrZeroOwner
	}
	rec.asset.Owner = newOwner
	return nil
}

// AssetDetails returns the public view of an asset. Unrestricted read;
// properties are not included (see AssetProperty).
func (r *Registry) AssetDetails(assetID int64) (types.AssetDetails, error) {
	rec, err := r.lookup(assetID)
	if err != nil {
		return types.AssetDetails{}, err
	}
	return rec.asset.Details(), nil
}

// AssetProperty returns a single property value. Unrestricted, like
// AssetDetails. Returns ErrPropertyNotFound for a key never written.
func (r *Registry) AssetProperty(assetID int64, key string) (string, error) {
	rec, err := r.lookup(assetID)
	if err != nil {
		return "", err
	}
	v, ok := rec.asset.Properties[key]
	if !ok {
		return "", types.ErrPropertyNotFound
	}
	return v, nil
}

// RestoreAsset rehydrates an asset during backend load. Assets must
// arrive in id order; the id must be the next sequential id. Used only
// by storage backends, never by callers.
func (r *Registry) RestoreAsset(asset types.Asset) error {
	if asset.AssetID != int64(len(r.assets)) {
		return types.ErrAssetNotFound
	}
	if asset.Owner.IsZero() {
		return types.ErrZeroOwner
	}
	props := make(map[string]string, len(asset.Properties))
	for k, v := range asset.Properties {
		props[k] = v
	}
	asset.Properties = props
	r.assets = append(r.assets, &assetRecord{asset: asset})
	return nil
}
