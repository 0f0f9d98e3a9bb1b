package sqlite

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/custos/pkg/types"
)

const (
	admin    = types.Identity("admin")
	owner    = types.Identity("owner")
	viewer   = types.Identity("viewer")
	stranger = types.Identity("stranger")
)

// testConfig returns a config rooted in a fresh temp directory.
func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Backend:        types.BackendSQLite,
		DataDir:        t.TempDir(),
		Administrators: []types.Identity{admin},
	}
}

// attachedBackend returns an attached backend that detaches on cleanup.
func attachedBackend(t *testing.T, cfg types.Config) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

// session returns a caller-attributed handle on the backend.
func session(t *testing.T, b *Backend, caller types.Identity) *Session {
	t.Helper()
	s, err := b.Session(caller)
	require.NoError(t, err)
	return s
}

func TestAttachDetachLifecycle(t *testing.T) {
	cfg := testConfig(t)
	b := NewBackend()

	require.NoError(t, b.Attach(cfg))
	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "detach is idempotent")

	s := session(t, b, admin)
	_, err := s.AddAsset("Widget", 1000, owner, nil, nil)
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = s.AssetDetails(0)
	assert.ErrorIs(t, err, types.ErrDetached)

	// Reattach works after detach.
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Detach())
}

func TestDetachAlwaysDetaches(t *testing.T) {
	cfg := testConfig(t)
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))

	// Close the handle out from under the backend; Detach must still
	// leave it detached, whatever the close reports.
	require.NoError(t, b.db.Close())
	_ = b.Detach()

	assert.False(t, b.attached)
	assert.Nil(t, b.db)
	_, err := session(t, b, admin).AssetDetails(0)
	assert.ErrorIs(t, err, types.ErrDetached)

	// And the backend is reusable afterwards.
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Detach())
}

func TestAttachValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.Config)
		wantErr error
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *types.Config) { c.Backend = "postgres" },
			wantErr: types.ErrBackendUnknown,
		},
		{
			name:    "no administrators",
			mutate:  func(c *types.Config) { c.Administrators = nil },
			wantErr: types.ErrNoAdministrators,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			assert.ErrorIs(t, NewBackend().Attach(cfg), tt.wantErr)
		})
	}
}

func TestSessionZeroCaller(t *testing.T) {
	b := attachedBackend(t, testConfig(t))

	_, err := b.Session("")
	assert.ErrorIs(t, err, types.ErrZeroCaller)
}

func TestSessionCallerAttribution(t *testing.T) {
	b := attachedBackend(t, testConfig(t))

	adminSess := session(t, b, admin)
	ownerSess := session(t, b, owner)
	assert.Equal(t, admin, adminSess.Caller())

	// The guard sees the session's identity, not anything in the call.
	_, err := ownerSess.AddAsset("Widget", 1000, owner, nil, nil)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
	id, err := adminSess.AddAsset("Widget", 1000, owner, nil, nil)
	require.NoError(t, err)

	evID, err := ownerSess.RecordTrackingEvent(id, "Ship", "", "Port X", 2000,
		[]types.Identity{viewer}, nil, nil)
	require.NoError(t, err)
	details, err := ownerSess.TrackingEvent(id, evID)
	require.NoError(t, err)
	assert.Equal(t, owner, details.CreatedBy)

	ok, err := adminSess.IsAdministrator(admin)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = adminSess.IsAdministrator(owner)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistenceAcrossReattach(t *testing.T) {
	cfg := testConfig(t)

	// First lifetime: build up registry state.
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))

	adminSess := session(t, b, admin)
	ownerSess := session(t, b, owner)

	assetID, err := adminSess.AddAsset("Widget", 1000, owner,
		[]string{"serial"}, []string{"X-100"})
	require.NoError(t, err)
	require.NoError(t, ownerSess.UpdateAssetProperties(assetID,
		[]string{"serial", "color"}, []string{"X-200", "red"}))

	evID, err := ownerSess.RecordTrackingEvent(assetID, "Ship", "loaded", "Port X", 2000,
		[]types.Identity{viewer}, []string{"weight"}, []string{"12t"})
	require.NoError(t, err)

	newOwner := types.Identity("new-owner")
	require.NoError(t, ownerSess.UpdateAssetOwner(assetID, newOwner))

	require.NoError(t, b.Detach())

	// Second lifetime: everything must come back from the database.
	b2 := attachedBackend(t, cfg)
	adminSess2 := session(t, b2, admin)
	viewerSess2 := session(t, b2, viewer)
	strangerSess2 := session(t, b2, stranger)

	details, err := strangerSess2.AssetDetails(assetID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", details.Name)
	assert.Equal(t, int64(1000), details.CreateDate)
	assert.Equal(t, newOwner, details.Owner)

	v, err := strangerSess2.AssetProperty(assetID, "serial")
	require.NoError(t, err)
	assert.Equal(t, "X-200", v)
	v, err = strangerSess2.AssetProperty(assetID, "color")
	require.NoError(t, err)
	assert.Equal(t, "red", v)

	ev, err := viewerSess2.TrackingEvent(assetID, evID)
	require.NoError(t, err)
	assert.Equal(t, types.EventDetails{
		EventID:     evID,
		Name:        "Ship",
		Description: "loaded",
		Location:    "Port X",
		CreatedBy:   owner,
		EventDate:   2000,
	}, ev)

	meta, err := viewerSess2.TrackingEventMetadata(assetID, evID, "weight")
	require.NoError(t, err)
	assert.Equal(t, "12t", meta)

	_, err = strangerSess2.TrackingEvent(assetID, evID)
	assert.ErrorIs(t, err, types.ErrUnauthorized, "stored access list survives reattach")

	// Counters continue where they left off.
	nextAsset, err := adminSess2.AddAsset("Gadget", 1100, owner, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, assetID+1, nextAsset)

	newOwnerSess2 := session(t, b2, newOwner)
	nextEv, err := newOwnerSess2.RecordTrackingEvent(assetID, "Arrive", "", "Port Y", 3000,
		[]types.Identity{viewer}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, evID+1, nextEv)
}

func TestReattachAdminMismatch(t *testing.T) {
	cfg := testConfig(t)
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Detach())

	changed := cfg
	changed.Administrators = []types.Identity{"someone-else"}
	assert.ErrorIs(t, NewBackend().Attach(changed), types.ErrAdminMismatch)

	// The original set still attaches.
	require.NoError(t, b.Attach(cfg))
	require.NoError(t, b.Detach())
}

func TestRejectedCallLeavesDatabaseUnchanged(t *testing.T) {
	cfg := testConfig(t)
	b := NewBackend()
	require.NoError(t, b.Attach(cfg))

	strangerSess := session(t, b, stranger)
	_, err := strangerSess.AddAsset("Widget", 1000, owner, nil, nil)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.NoError(t, b.Detach())

	b2 := attachedBackend(t, cfg)
	_, err = session(t, b2, stranger).AssetDetails(0)
	assert.ErrorIs(t, err, types.ErrAssetNotFound)
}

func TestExportAudit(t *testing.T) {
	cfg := testConfig(t)
	b := attachedBackend(t, cfg)

	adminSess := session(t, b, admin)
	ownerSess := session(t, b, owner)

	assetID, err := adminSess.AddAsset("Widget", 1000, owner, []string{"serial"}, []string{"X-100"})
	require.NoError(t, err)
	_, err = ownerSess.RecordTrackingEvent(assetID, "Ship", "", "Port X", 2000,
		[]types.Identity{viewer, "carol"}, []string{"weight"}, []string{"12t"})
	require.NoError(t, err)

	// Administrator only: the export reveals access lists and metadata.
	assert.ErrorIs(t, ownerSess.ExportAudit(), types.ErrUnauthorized)
	require.NoError(t, adminSess.ExportAudit())

	assets := readJSONLFile(t, filepath.Join(cfg.DataDir, auditAssetsFile))
	require.Len(t, assets, 1)
	assert.Equal(t, "Widget", assets[0]["name"])
	assert.Equal(t, map[string]any{"serial": "X-100"}, assets[0]["properties"])

	events := readJSONLFile(t, filepath.Join(cfg.DataDir, auditEventsFile))
	require.Len(t, events, 1)
	assert.Equal(t, "Ship", events[0]["name"])
	assert.Equal(t, string(owner), events[0]["created_by"])
	assert.ElementsMatch(t, []any{"carol", string(viewer)}, events[0]["access_list"])
	assert.Equal(t, map[string]any{"weight": "12t"}, events[0]["metadata"])
}

// readJSONLFile parses every line of a JSONL file into a generic map.
func readJSONLFile(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}
