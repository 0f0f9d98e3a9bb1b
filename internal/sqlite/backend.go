// Backend lifecycle for the SQLite host.
// Implements: prd002-sqlite-host R4 (Attach/Detach), R5 (serialization);
//
//	prd003-configuration-directories R4 (data directory creation).
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/ledgerforge/custos/pkg/registry"
	"github.com/ledgerforge/custos/pkg/types"
)

// databaseFile is the registry database name inside the data directory.
const databaseFile = "custos.db"

// Backend hosts a registry on a SQLite database. One mutex serializes
// every call, which supplies the total-order guarantee the core
// requires: no two calls' effects ever interleave.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB
	reg      *registry.Registry
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) the registry database described by config
// and loads the registry into memory. On a fresh database the
// administrator set is seeded from config; on an existing database the
// stored set must match the configured one exactly, otherwise Attach
// fails with ErrAdminMismatch rather than silently rewriting the
// privileged set. Returns ErrAlreadyAttached if called while attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, databaseFile))
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create indexes: %w", err)
		}
	}

	reg, err := loadRegistry(db, config)
	if err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.reg = reg
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent: detaching a detached backend
// succeeds. After Detach, sessions return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	// Mark detached before closing: a failed close must not leave a
	// half-closed handle serving later sessions.
	db := b.db
	b.db = nil
	b.reg = nil
	b.attached = false
	if db != nil {
		return db.Close()
	}
	return nil
}

// Session returns a call handle attributed to the given caller. The
// environment, not the caller's own input, supplies the identity here;
// everything invoked through the session carries it implicitly.
// A zero identity is rejected.
func (b *Backend) Session(caller types.Identity) (*Session, error) {
	if caller.IsZero() {
		return nil, types.ErrZeroCaller
	}
	return &Session{backend: b, caller: caller}, nil
}

// poison closes the database and marks the backend detached after a
// persistence failure. The in-memory registry may be ahead of the
// database at that point; dropping it keeps divergent state from
// serving further calls. The next Attach reloads the last committed
// state.
func (b *Backend) poison() {
	if b.db != nil {
		b.db.Close()
		b.db = nil
	}
	b.reg = nil
	b.attached = false
}
