// Package sqlite implements the SQLite hosting backend for the Custos
// registry. It supplies the guarantees the core assumes from its
// environment: serialized call application, per-call atomicity, caller
// attribution, and durable storage.
// Implements: prd002-sqlite-host (R3 schema, R4 lifecycle);
//
//	docs/ARCHITECTURE § SQLite Host.
package sqlite

// Schema DDL (prd002-sqlite-host R3.2). The database file is the
// source of truth; tables are created only when absent.
const (
	createAdministrators = `CREATE TABLE IF NOT EXISTS administrators (
    position INTEGER PRIMARY KEY,
    identity TEXT NOT NULL
);`

	createAssets = `CREATE TABLE IF NOT EXISTS assets (
    asset_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    create_date INTEGER NOT NULL,
    owner TEXT NOT NULL
);`

	createAssetProperties = `CREATE TABLE IF NOT EXISTS asset_properties (
    asset_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (asset_id, key),
    FOREIGN KEY (asset_id) REFERENCES assets(asset_id)
);`

	createEvents = `CREATE TABLE IF NOT EXISTS events (
    asset_id INTEGER NOT NULL,
    event_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    location TEXT NOT NULL,
    created_by TEXT NOT NULL,
    event_date INTEGER NOT NULL,
    PRIMARY KEY (asset_id, event_id),
    FOREIGN KEY (asset_id) REFERENCES assets(asset_id)
);`

	createEventAccess = `CREATE TABLE IF NOT EXISTS event_access (
    asset_id INTEGER NOT NULL,
    event_id INTEGER NOT NULL,
    identity TEXT NOT NULL,
    PRIMARY KEY (asset_id, event_id, identity),
    FOREIGN KEY (asset_id, event_id) REFERENCES events(asset_id, event_id)
);`

	createEventMetadata = `CREATE TABLE IF NOT EXISTS event_metadata (
    asset_id INTEGER NOT NULL,
    event_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (asset_id, event_id, key),
    FOREIGN KEY (asset_id, event_id) REFERENCES events(asset_id, event_id)
);`
)

// Index DDL for common queries (prd002-sqlite-host R3.3).
const (
	idxAssetsOwner       = `CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets(owner);`
	idxEventsCreatedBy   = `CREATE INDEX IF NOT EXISTS idx_events_created_by ON events(created_by);`
	idxEventAccessMember = `CREATE INDEX IF NOT EXISTS idx_event_access_member ON event_access(identity);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createAdministrators,
	createAssets,
	createAssetProperties,
	createEvents,
	createEventAccess,
	createEventMetadata,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxAssetsOwner,
	idxEventsCreatedBy,
	idxEventAccessMember,
}
