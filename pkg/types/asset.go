package types

// Asset is a tracked item in the registry. Asset ids are assigned
// sequentially from 0, are dense, and are never reused or deleted.
// Implements: prd001-registry-core R2.
type Asset struct {
	// AssetID is the sequential id assigned by the registry.
	AssetID int64

	// Name is a human-readable label, stored as given.
	Name string

	// CreateDate is a caller-supplied timestamp. The registry stores
	// it without validation.
	CreateDate int64

	// Owner is the identity currently holding custody rights. Mutable
	// only through an explicit ownership transfer.
	Owner Identity

	// Properties maps property keys to values. Keys are upserted,
	// never removed.
	Properties map[string]string
}

// AssetDetails is the unrestricted public view of an asset. Properties
// are deliberately absent; they are read key by key.
type AssetDetails struct {
	AssetID    int64
	Name       string
	CreateDate int64
	Owner      Identity
}

// Details returns the public view of the asset.
func (a *Asset) Details() AssetDetails {
	return AssetDetails{
		AssetID:    a.AssetID,
		Name:       a.Name,
		CreateDate: a.CreateDate,
		Owner:      a.Owner,
	}
}

// CloneProperties returns an independent copy of the property map.
// Returns an empty map (not nil) if no properties are set.
func (a *Asset) CloneProperties() map[string]string {
	cp := make(map[string]string, len(a.Properties))
	for k, v := range a.Properties {
		cp[k] = v
	}
	return cp
}
