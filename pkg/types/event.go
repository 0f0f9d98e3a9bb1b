package types

// TrackingEvent is an immutable custody/status record on an asset's
// ledger. Event ids are sequential per asset, starting at 0. Every
// field is fixed at creation; no update or delete path exists.
// Implements: prd001-registry-core R4.
type TrackingEvent struct {
	// EventID is the per-asset sequential id.
	EventID int64

	// Name, Description, and Location describe the occurrence.
	Name        string
	Description string
	Location    string

	// CreatedBy is the attributed caller at creation time.
	CreatedBy Identity

	// EventDate is a caller-supplied timestamp, stored unvalidated.
	EventDate int64

	// Access is the set of identities permitted to read this event.
	Access AccessList

	// Metadata maps metadata keys to values, fixed at creation.
	Metadata map[string]string
}

// EventDetails is the guarded read view of a tracking event. The access
// list and metadata map are never returned in full; metadata is read
// key by key under the same guard.
type EventDetails struct {
	EventID     int64
	Name        string
	Description string
	Location    string
	CreatedBy   Identity
	EventDate   int64
}

// Details returns the guarded view of the event.
func (e *TrackingEvent) Details() EventDetails {
	return EventDetails{
		EventID:     e.EventID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		CreatedBy:   e.CreatedBy,
		EventDate:   e.EventDate,
	}
}

// CloneMetadata returns an independent copy of the metadata map.
func (e *TrackingEvent) CloneMetadata() map[string]string {
	cp := make(map[string]string, len(e.Metadata))
	for k, v := range e.Metadata {
		cp[k] = v
	}
	return cp
}
