// Package sqlite provides the public API for the SQLite Custos host.
// It exposes the factory function and a config-file bootstrap while
// keeping implementation details internal.
//
// Implements: prd002-sqlite-host (backend factory);
//
//	prd003-configuration-directories (bootstrap);
//	docs/ARCHITECTURE § Public API.
package sqlite

import (
	"github.com/ledgerforge/custos/internal/sqlite"
	"github.com/ledgerforge/custos/pkg/config"
	"github.com/ledgerforge/custos/pkg/paths"
)

// Backend is the SQLite host for a Custos registry. See the internal
// package for the lifecycle and call-surface documentation.
type Backend = sqlite.Backend

// Session is a caller-attributed call handle on a Backend.
type Session = sqlite.Session

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend:        types.BackendSQLite,
//	    DataDir:        ".custos-db",
//	    Administrators: []types.Identity{"admin-1"},
//	})
//	defer backend.Detach()
func NewBackend() *Backend {
	return sqlite.NewBackend()
}

// AttachFromConfig resolves the configuration directory (explicit value
// > CUSTOS_CONFIG_DIR > platform default), loads config.yaml from it,
// resolves the data directory the same way, and returns an attached
// backend. This is the bootstrap path for hosts that configure a
// registry through files rather than building a types.Config in code.
// A first run writes a commented default config.yaml, which fails
// Attach until the operator names at least one administrator.
func AttachFromConfig(configDir string) (*Backend, error) {
	dir, err := paths.ResolveConfigDir(configDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	cfg.DataDir, err = paths.ResolveDataDir("", cfg.DataDir)
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, err
	}
	return backend, nil
}
