// JSONL audit export with atomic file writes.
// Implements: prd002-sqlite-host R8 (audit export).
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgerforge/custos/pkg/types"
)

// Audit export file names inside the data directory.
const (
	auditAssetsFile = "assets.jsonl"
	auditEventsFile = "events.jsonl"
)

// auditAsset is the export shape of an asset record, properties
// included.
type auditAsset struct {
	AssetID    int64             `json:"asset_id"`
	Name       string            `json:"name"`
	CreateDate int64             `json:"create_date"`
	Owner      string            `json:"owner"`
	Properties map[string]string `json:"properties"`
}

// auditEvent is the export shape of a tracking event. Unlike the
// guarded read surface, the export carries the full access list and
// metadata, which is why ExportAudit is administrator-only.
type auditEvent struct {
	AssetID     int64             `json:"asset_id"`
	EventID     int64             `json:"event_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	CreatedBy   string            `json:"created_by"`
	EventDate   int64             `json:"event_date"`
	AccessList  []string          `json:"access_list"`
	Metadata    map[string]string `json:"metadata"`
}

// ExportAudit writes assets.jsonl and events.jsonl snapshots of the
// whole registry to the data directory. Administrator only: the export
// reveals every event's access list and metadata.
func (s *Session) ExportAudit() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}
	if !b.reg.IsAdministrator(s.caller) {
		return types.ErrUnauthorized
	}

	assets, err := exportAssets(b)
	if err != nil {
		return err
	}
	events, err := exportEvents(b)
	if err != nil {
		return err
	}

	dataDir := b.config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := writeJSONL(filepath.Join(dataDir, auditAssetsFile), assets); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(dataDir, auditEventsFile), events)
}

func exportAssets(b *Backend) ([]any, error) {
	props, err := loadAssetProperties(b.db)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query("SELECT asset_id, name, create_date, owner FROM assets ORDER BY asset_id")
	if err != nil {
		return nil, fmt.Errorf("export assets: %w", err)
	}
	defer rows.Close()

	var records []any
	for rows.Next() {
		var rec auditAsset
		if err := rows.Scan(&rec.AssetID, &rec.Name, &rec.CreateDate, &rec.Owner); err != nil {
			return nil, err
		}
		rec.Properties = props[rec.AssetID]
		if rec.Properties == nil {
			rec.Properties = map[string]string{}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func exportEvents(b *Backend) ([]any, error) {
	access, err := loadEventAccess(b.db)
	if err != nil {
		return nil, err
	}
	metadata, err := loadEventMetadata(b.db)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(
		"SELECT asset_id, event_id, name, description, location, created_by, event_date FROM events ORDER BY asset_id, event_id",
	)
	if err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}
	defer rows.Close()

	var records []any
	for rows.Next() {
		var rec auditEvent
		if err := rows.Scan(&rec.AssetID, &rec.EventID, &rec.Name, &rec.Description, &rec.Location, &rec.CreatedBy, &rec.EventDate); err != nil {
			return nil, err
		}
		key := eventKey{rec.AssetID, rec.EventID}
		rec.AccessList = []string{}
		for _, m := range access[key].Members() {
			rec.AccessList = append(rec.AccessList, string(m))
		}
		rec.Metadata = metadata[key]
		if rec.Metadata == nil {
			rec.Metadata = map[string]string{}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// writeJSONL marshals each record as one JSON line and writes the file
// atomically using the temp-file, fsync, rename pattern.
func writeJSONL(path string, records []any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fail("marshaling record", err)
		}
		if _, err := w.Write(line); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
