// Session call surface for the SQLite host. Every public operation
// locks the backend, evaluates the registry core, and persists the
// effect inside a single transaction before returning.
// Implements: prd002-sqlite-host R5 (call surface), R6 (atomicity);
//
//	docs/ARCHITECTURE § SQLite Host.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ledgerforge/custos/pkg/types"
)

// Session carries the attributed caller identity for a sequence of
// calls against one backend. Sessions are cheap; hosts typically make
// one per authenticated principal.
type Session struct {
	backend *Backend
	caller  types.Identity
}

// Caller returns the identity attributed to this session.
func (s *Session) Caller() types.Identity {
	return s.caller
}

// IsAdministrator reports whether the identity is in the administrator
// set. Unrestricted read.
func (s *Session) IsAdministrator(id types.Identity) (bool, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return false, types.ErrDetached
	}
	return b.reg.IsAdministrator(id), nil
}

// AddAsset registers a new asset and persists it. Administrator only.
func (s *Session) AddAsset(name string, createDate int64, owner types.Identity, propKeys, propValues []string) (int64, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrDetached
	}

	id, err := b.reg.AddAsset(s.caller, name, createDate, owner, propKeys, propValues)
	if err != nil {
		return 0, err
	}
	err = b.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO assets (asset_id, name, create_date, owner) VALUES (?, ?, ?, ?)",
			id, name, createDate, string(owner),
		); err != nil {
			return err
		}
		return upsertProperties(tx, id, propKeys, propValues)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateAssetProperties upserts properties on an asset and persists
// them. Owner or administrator only.
func (s *Session) UpdateAssetProperties(assetID int64, propKeys, propValues []string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	if err := b.reg.UpdateAssetProperties(s.caller, assetID, propKeys, propValues); err != nil {
		return err
	}
	return b.inTx(func(tx *sql.Tx) error {
		return upsertProperties(tx, assetID, propKeys, propValues)
	})
}

// UpdateAssetOwner transfers custody of an asset and persists the new
// owner. Owner or administrator only.
func (s *Session) UpdateAssetOwner(assetID int64, newOwner types.Identity) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	if err := b.reg.UpdateAssetOwner(s.caller, assetID, newOwner); err != nil {
		return err
	}
	return b.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE assets SET owner = ? WHERE asset_id = ?", string(newOwner), assetID)
		return err
	})
}

// AssetDetails returns the public view of an asset. Unrestricted.
func (s *Session) AssetDetails(assetID int64) (types.AssetDetails, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.AssetDetails{}, types.ErrDetached
	}
	return b.reg.AssetDetails(assetID)
}

// AssetProperty returns one property value from an asset. Unrestricted.
func (s *Session) AssetProperty(assetID int64, key string) (string, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrDetached
	}
	return b.reg.AssetProperty(assetID, key)
}

// RecordTrackingEvent appends an event to an asset's ledger and
// persists it. Owner, administrator, or supplied-access-list member.
func (s *Session) RecordTrackingEvent(assetID int64, name, description, location string, eventDate int64, accessList []types.Identity, metaKeys, metaValues []string) (int64, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrDetached
	}

	id, err := b.reg.RecordTrackingEvent(s.caller, assetID, name, description, location, eventDate, accessList, metaKeys, metaValues)
	if err != nil {
		return 0, err
	}
	err = b.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO events (asset_id, event_id, name, description, location, created_by, event_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
			assetID, id, name, description, location, string(s.caller), eventDate,
		); err != nil {
			return err
		}
		// The registry collapsed duplicates and dropped zero entries;
		// mirror that here so the stored rows match the stored set.
		access, err := types.NewAccessList(accessList)
		if err != nil {
			return err
		}
		for _, member := range access.Members() {
			if _, err := tx.Exec(
				"INSERT INTO event_access (asset_id, event_id, identity) VALUES (?, ?, ?)",
				assetID, id, string(member),
			); err != nil {
				return err
			}
		}
		for i, k := range metaKeys {
			if _, err := tx.Exec(
				"INSERT OR REPLACE INTO event_metadata (asset_id, event_id, key, value) VALUES (?, ?, ?, ?)",
				assetID, id, k, metaValues[i],
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// TrackingEvent returns the guarded view of an event. Owner,
// administrator, or stored-access-list member.
func (s *Session) TrackingEvent(assetID, eventID int64) (types.EventDetails, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.EventDetails{}, types.ErrDetached
	}
	return b.reg.TrackingEvent(s.caller, assetID, eventID)
}

// TrackingEventMetadata returns one metadata value from an event,
// under the same guard as TrackingEvent.
func (s *Session) TrackingEventMetadata(assetID, eventID int64, key string) (string, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrDetached
	}
	return b.reg.TrackingEventMetadata(s.caller, assetID, eventID, key)
}

// inTx runs fn inside a transaction. A failure after the registry has
// already applied the mutation poisons the backend: the in-memory view
// would otherwise be ahead of the database, so the backend detaches
// and the next Attach reloads the last committed state.
func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		b.poison()
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		b.poison()
		return fmt.Errorf("persist: %w", err)
	}
	if err := tx.Commit(); err != nil {
		b.poison()
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// upsertProperties writes property pairs in order so a duplicate key
// keeps its last value, matching the registry's in-memory behavior.
func upsertProperties(tx *sql.Tx, assetID int64, keys, values []string) error {
	for i, k := range keys {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO asset_properties (asset_id, key, value) VALUES (?, ?, ?)",
			assetID, k, values[i],
		); err != nil {
			return err
		}
	}
	return nil
}
