package registry

import (
	"math"

	"github.com/ledgerforge/custos/pkg/types"
)

// RecordTrackingEvent appends an immutable event to an asset's ledger
// and returns the per-asset event id. The access list must be
// non-empty and the metadata key and value lists must match in length.
//
// Authorization: the caller must be the asset's owner, an
// administrator, or a member of the access list supplied to this call.
// The last clause means a caller can grant itself the right to record
// by naming itself in the list it submits; the behavior is kept from
// the original registry design, and CreatedBy is always stamped from
// the attributed caller, so the ledger still records who wrote the
// event (prd001-registry-core R4.2; docs/ARCHITECTURE § Authorization).
//
// Event ids start at 0 per asset and increase by one per successful
// call, independent of every other asset's counter.
func (r *Registry) RecordTrackingEvent(caller types.Identity, assetID int64, name, description, location string, eventDate int64, accessList []types.Identity, metaKeys, metaValues []string) (int64, error) {
	rec, err := r.lookup(assetID)
	if err != nil {
		return 0, err
	}
	access, err := types.NewAccessList(accessList)
	if err != nil {
		return 0, err
	}
	metadata, err := properties(metaKeys, metaValues, types.ErrMetadataMismatch)
	if err != nil {
		return 0, err
	}
	if !canAccessEvent(r.IsAdministrator(caller), rec.asset.Owner, caller, access) {
		return 0, types.ErrUnauthorized
	}
	if int64(len(rec.events)) == math.MaxInt64 {
		return 0, types.ErrCounterOverflow
	}

	id := int64(len(rec.events))
	rec.events = append(rec.events, &types.TrackingEvent{
		EventID:     id,
		Name:        name,
		Description: description,
		Location:    location,
		CreatedBy:   caller,
		EventDate:   eventDate,
		Access:      access,
		Metadata:    metadata,
	})
	return id, nil
}

// TrackingEvent returns the guarded view of an event. The caller must
// be the asset's owner, an administrator, or a member of the event's
// stored access list (prd001-registry-core R4.3).
func (r *Registry) TrackingEvent(caller types.Identity, assetID, eventID int64) (types.EventDetails, error) {
	ev, err := r.lookupEvent(assetID, eventID)
	if err != nil {
		return types.EventDetails{}, err
	}
	rec := r.assets[assetID]
	if !canAccessEvent(r.IsAdministrator(caller), rec.asset.Owner, caller, ev.Access) {
		return types.EventDetails{}, types.ErrUnauthorized
	}
	return ev.Details(), nil
}

// TrackingEventMetadata returns a single metadata value from an event,
// under the same guard as TrackingEvent. Returns ErrMetadataNotFound
// for a key never written.
func (r *Registry) TrackingEventMetadata(caller types.Identity, assetID, eventID int64, key string) (string, error) {
	ev, err := r.lookupEvent(assetID, eventID)
	if err != nil {
		return "", err
	}
	rec := r.assets[assetID]
	if !canAccessEvent(r.IsAdministrator(caller), rec.asset.Owner, caller, ev.Access) {
		return "", types.ErrUnauthorized
	}
	v, ok := ev.Metadata[key]
	if !ok {
		return "", types.ErrMetadataNotFound
	}
	return v, nil
}

// lookupEvent resolves an asset/event id pair.
func (r *Registry) lookupEvent(assetID, eventID int64) (*types.TrackingEvent, error) {
	rec, err := r.lookup(assetID)
	if err != nil {
		return nil, err
	}
	if eventID < 0 || eventID >= int64(len(rec.events)) {
		return nil, types.ErrEventNotFound
	}
	return rec.events[eventID], nil
}

// RestoreEvent rehydrates a tracking event during backend load. Events
// must arrive in per-asset id order. Used only by storage backends.
func (r *Registry) RestoreEvent(assetID int64, ev types.TrackingEvent) error {
	rec, err := r.lookup(assetID)
	if err != nil {
		return err
	}
	if ev.EventID != int64(len(rec.events)) {
		return types.ErrEventNotFound
	}
	if len(ev.Access) == 0 {
		return types.ErrEmptyAccessList
	}
	ev.Access = ev.Access.Clone()
	ev.Metadata = ev.CloneMetadata()
	rec.events = append(rec.events, &ev)
	return nil
}
