// Registry hydration from an existing database.
// Implements: prd002-sqlite-host R4.2 (load on attach), R4.3 (admin
// seeding and mismatch detection).
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ledgerforge/custos/pkg/registry"
	"github.com/ledgerforge/custos/pkg/types"
)

// loadRegistry rebuilds the in-memory registry from the database. On a
// fresh database the configured administrator set is persisted; on an
// existing one the stored set must equal the configured set, in order.
func loadRegistry(db *sql.DB, config types.Config) (*registry.Registry, error) {
	stored, err := loadAdministrators(db)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		if err := seedAdministrators(db, config.Administrators); err != nil {
			return nil, err
		}
	} else if !identitiesEqual(stored, config.Administrators) {
		return nil, types.ErrAdminMismatch
	}

	reg, err := registry.New(config.Administrators)
	if err != nil {
		return nil, err
	}
	if err := loadAssets(db, reg); err != nil {
		return nil, err
	}
	if err := loadEvents(db, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func loadAdministrators(db *sql.DB) ([]types.Identity, error) {
	rows, err := db.Query("SELECT identity FROM administrators ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("load administrators: %w", err)
	}
	defer rows.Close()

	var admins []types.Identity
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		admins = append(admins, types.Identity(id))
	}
	return admins, rows.Err()
}

func seedAdministrators(db *sql.DB, admins []types.Identity) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for i, id := range admins {
		if _, err := tx.Exec(
			"INSERT INTO administrators (position, identity) VALUES (?, ?)",
			i, string(id),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed administrators: %w", err)
		}
	}
	return tx.Commit()
}

// identitiesEqual compares two identity lists element by element. The
// administrator set is ordered, so order matters.
func identitiesEqual(a, b []types.Identity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func loadAssets(db *sql.DB, reg *registry.Registry) error {
	props, err := loadAssetProperties(db)
	if err != nil {
		return err
	}

	rows, err := db.Query("SELECT asset_id, name, create_date, owner FROM assets ORDER BY asset_id")
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var asset types.Asset
		var owner string
		if err := rows.Scan(&asset.AssetID, &asset.Name, &asset.CreateDate, &owner); err != nil {
			return err
		}
		asset.Owner = types.Identity(owner)
		asset.Properties = props[asset.AssetID]
		if asset.Properties == nil {
			asset.Properties = map[string]string{}
		}
		if err := reg.RestoreAsset(asset); err != nil {
			return fmt.Errorf("restore asset %d: %w", asset.AssetID, err)
		}
	}
	return rows.Err()
}

func loadAssetProperties(db *sql.DB) (map[int64]map[string]string, error) {
	rows, err := db.Query("SELECT asset_id, key, value FROM asset_properties")
	if err != nil {
		return nil, fmt.Errorf("load asset properties: %w", err)
	}
	defer rows.Close()

	props := make(map[int64]map[string]string)
	for rows.Next() {
		var assetID int64
		var key, value string
		if err := rows.Scan(&assetID, &key, &value); err != nil {
			return nil, err
		}
		if props[assetID] == nil {
			props[assetID] = make(map[string]string)
		}
		props[assetID][key] = value
	}
	return props, rows.Err()
}

// eventKey addresses one event across the auxiliary tables.
type eventKey struct {
	assetID int64
	eventID int64
}

func loadEvents(db *sql.DB, reg *registry.Registry) error {
	access, err := loadEventAccess(db)
	if err != nil {
		return err
	}
	metadata, err := loadEventMetadata(db)
	if err != nil {
		return err
	}

	rows, err := db.Query(
		"SELECT asset_id, event_id, name, description, location, created_by, event_date FROM events ORDER BY asset_id, event_id",
	)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assetID int64
		var ev types.TrackingEvent
		var createdBy string
		if err := rows.Scan(&assetID, &ev.EventID, &ev.Name, &ev.Description, &ev.Location, &createdBy, &ev.EventDate); err != nil {
			return err
		}
		key := eventKey{assetID, ev.EventID}
		ev.CreatedBy = types.Identity(createdBy)
		ev.Access = access[key]
		ev.Metadata = metadata[key]
		if ev.Metadata == nil {
			ev.Metadata = map[string]string{}
		}
		if err := reg.RestoreEvent(assetID, ev); err != nil {
			return fmt.Errorf("restore event %d/%d: %w", assetID, ev.EventID, err)
		}
	}
	return rows.Err()
}

func loadEventAccess(db *sql.DB) (map[eventKey]types.AccessList, error) {
	rows, err := db.Query("SELECT asset_id, event_id, identity FROM event_access")
	if err != nil {
		return nil, fmt.Errorf("load event access: %w", err)
	}
	defer rows.Close()

	access := make(map[eventKey]types.AccessList)
	for rows.Next() {
		var key eventKey
		var id string
		if err := rows.Scan(&key.assetID, &key.eventID, &id); err != nil {
			return nil, err
		}
		if access[key] == nil {
			access[key] = make(types.AccessList)
		}
		access[key][types.Identity(id)] = true
	}
	return access, rows.Err()
}

func loadEventMetadata(db *sql.DB) (map[eventKey]map[string]string, error) {
	rows, err := db.Query("SELECT asset_id, event_id, key, value FROM event_metadata")
	if err != nil {
		return nil, fmt.Errorf("load event metadata: %w", err)
	}
	defer rows.Close()

	metadata := make(map[eventKey]map[string]string)
	for rows.Next() {
		var key eventKey
		var k, v string
		if err := rows.Scan(&key.assetID, &key.eventID, &k, &v); err != nil {
			return nil, err
		}
		if metadata[key] == nil {
			metadata[key] = make(map[string]string)
		}
		metadata[key][k] = v
	}
	return metadata, rows.Err()
}
